package database

import "fmt"

// Attribute describes one record attribute in the database file format.
type Attribute struct {
	Name     string
	Required bool
}

// Schema declares the attributes a record may carry. The loader rejects
// unknown attributes (strict decoding) and missing required ones, so the
// templates can rely on every listed attribute existing on the data they
// receive instead of discovering a gap at render time.
var Schema = []Attribute{
	{Name: "text", Required: true},
	{Name: "author", Required: true},
	{Name: "created"},
	{Name: "translations"},
	{Name: "illustrations"},
}

func validate(record fileRecord) error {
	present := map[string]bool{
		"text":   record.Text != "",
		"author": record.Author != "",
	}
	for _, attr := range Schema {
		if attr.Required && !present[attr.Name] {
			return fmt.Errorf("missing required attribute %q", attr.Name)
		}
	}

	for i, illustration := range record.Illustrations {
		if illustration.Image == "" {
			return fmt.Errorf("illustration %d: missing required attribute %q", i, "image")
		}
	}
	for i, translation := range record.Translations {
		if translation.Language == "" || translation.Text == "" {
			return fmt.Errorf("translation %d: missing language or text", i)
		}
	}
	return nil
}
