package markup

import "github.com/tliron/commonlog"

// Name is a resolved element name. Space holds the namespace URI, not the
// prefix used in the source.
type Name struct {
	Space string
	Local string
}

// Qualified returns "uri:local" for namespaced names and the bare local
// name otherwise.
func (n Name) Qualified() string {
	if n.Space == "" {
		return n.Local
	}
	return n.Space + ":" + n.Local
}

type Attribute struct {
	Name  string
	Space string
	Value string
}

// Handler receives parse events in document order. StartDocument and
// EndDocument are called exactly once for every successfully parsed input.
type Handler interface {
	StartDocument()
	EndDocument()
	StartPrefixMapping(prefix, uri string)
	StartElement(name Name, attrs []Attribute)
	EndElement(name Name)
	Characters(text string)
}

// NopHandler ignores every event. Embed it to implement only the events
// you care about.
type NopHandler struct{}

func (NopHandler) StartDocument() {}
func (NopHandler) EndDocument() {}
func (NopHandler) StartPrefixMapping(string, string) {}
func (NopHandler) StartElement(Name, []Attribute) {}
func (NopHandler) EndElement(Name) {}
func (NopHandler) Characters(string) {}

// LogHandler writes every event to a debug logger.
type LogHandler struct {
	log commonlog.Logger
}

func NewLogHandler(log commonlog.Logger) *LogHandler {
	if log == nil {
		log = commonlog.GetLogger("undeepend.markup")
	}
	return &LogHandler{log: log}
}

func (h *LogHandler) StartDocument() {
	h.log.Debug("start_document")
}

func (h *LogHandler) EndDocument() {
	h.log.Debug("end_document")
}

func (h *LogHandler) StartPrefixMapping(prefix, uri string) {
	h.log.Debugf("start_prefix_mapping %s=%s", prefix, uri)
}

func (h *LogHandler) StartElement(name Name, attrs []Attribute) {
	h.log.Debugf("start_element %s %v", name.Qualified(), attrs)
}

func (h *LogHandler) EndElement(name Name) {
	h.log.Debugf("end_element %s", name.Qualified())
}

func (h *LogHandler) Characters(text string) {
	h.log.Debugf("characters %q", text)
}
