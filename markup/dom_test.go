package markup

import (
	"errors"
	"reflect"
	"testing"
)

func TestParseDocumentTree(t *testing.T) {
	input := Prolog + `
<project xmlns="http://maven.apache.org/POM/4.0.0">
  <groupId>org.example</groupId>
  <dependencies>
    <dependency scope="test">
      <artifactId>junit</artifactId>
    </dependency>
  </dependencies>
</project>`
	doc, err := ParseDocument(input)
	if err != nil {
		t.Fatalf("ParseDocument() error: %v", err)
	}
	root := doc.Root
	if root.Name != "project" || root.Space != "http://maven.apache.org/POM/4.0.0" {
		t.Errorf("root = %s/%s, want project in the POM namespace", root.Space, root.Name)
	}
	if got, ok := root.ChildText("groupId"); !ok || got != "org.example" {
		t.Errorf("ChildText(groupId) = %q, %v, want %q, true", got, ok, "org.example")
	}
	deps := root.Child("dependencies").ChildrenNamed("dependency")
	if len(deps) != 1 {
		t.Fatalf("len(dependency) = %d, want 1", len(deps))
	}
	if v, ok := deps[0].Attr("scope"); !ok || v != "test" {
		t.Errorf("Attr(scope) = %q, %v, want %q, true", v, ok, "test")
	}
	if got, _ := deps[0].ChildText("artifactId"); got != "junit" {
		t.Errorf("artifactId = %q, want %q", got, "junit")
	}
}

func TestParseDocumentChildOrder(t *testing.T) {
	doc, err := ParseDocument(Prolog + "<m><module>a</module><module>b</module><module>c</module></m>")
	if err != nil {
		t.Fatalf("ParseDocument() error: %v", err)
	}
	var got []string
	for _, c := range doc.Root.Children {
		got = append(got, c.Text)
	}
	if want := []string{"a", "b", "c"}; !reflect.DeepEqual(got, want) {
		t.Errorf("children = %v, want %v", got, want)
	}
}

func TestParseDocumentTextOverwrite(t *testing.T) {
	doc, err := ParseDocument(Prolog + "<a>first<b/>second</a>")
	if err != nil {
		t.Fatalf("ParseDocument() error: %v", err)
	}
	if doc.Root.Text != "second" {
		t.Errorf("Root.Text = %q, want %q", doc.Root.Text, "second")
	}
	if b := doc.Root.Child("b"); b == nil || b.HasText {
		t.Errorf("Child(b) = %+v, want an element without text", b)
	}
}

func TestParseDocumentCommentTransparent(t *testing.T) {
	plain, err := ParseDocument(Prolog + "<a><b>1</b><c/></a>")
	if err != nil {
		t.Fatalf("ParseDocument(plain) error: %v", err)
	}
	commented, err := ParseDocument(Prolog + "<!-- head --><a><!-- x --><b>1</b><!-- y --><c/></a><!-- tail -->")
	if err != nil {
		t.Fatalf("ParseDocument(commented) error: %v", err)
	}
	if !reflect.DeepEqual(plain, commented) {
		t.Errorf("comments changed the tree:\n%+v\n%+v", plain.Root, commented.Root)
	}
}

func TestParseDocumentError(t *testing.T) {
	doc, err := ParseDocument(Prolog + "<a><b></a>")
	if !errors.Is(err, ErrUnexpectedCharacter) {
		t.Errorf("ParseDocument() error = %v, want %v", err, ErrUnexpectedCharacter)
	}
	if doc != nil {
		t.Errorf("ParseDocument() returned a partial tree: %+v", doc)
	}
}

func TestBuilderReuse(t *testing.T) {
	b := NewBuilder()
	if err := Parse(Prolog+"<first/>", b); err != nil {
		t.Fatal(err)
	}
	if err := Parse(Prolog+"<second><x/></second>", b); err != nil {
		t.Fatal(err)
	}
	doc := b.Document()
	if doc.Root.Name != "second" || len(doc.Root.Children) != 1 {
		t.Errorf("Document().Root = %+v, want second with one child", doc.Root)
	}
}
