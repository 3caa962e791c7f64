package notion

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
)

// Page is a page object without its content blocks.
type Page struct {
	ID             uuid.UUID
	CreatedTime    time.Time
	LastEditedTime time.Time
	CreatedBy      User
	LastEditedBy   User
	Archived       bool
	Icon           File
	Cover          File
	Parent         Parent
	URL            string
	Properties     map[string]PropertyValue
}

// Title returns the plain text of the page's title property.
func (p *Page) Title() string {
	for _, value := range p.Properties {
		if title, ok := value.(*TitleProperty); ok {
			return PlainText(title.Text)
		}
	}
	return ""
}

// PropertyNames returns the property names in sorted order.
func (p *Page) PropertyNames() []string {
	names := make([]string, 0, len(p.Properties))
	for name := range p.Properties {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Files returns the icon, the cover and the contents of every files
// property of p.
func (p *Page) Files() []File {
	var files []File
	if p.Icon != nil {
		files = append(files, p.Icon)
	}
	if p.Cover != nil {
		files = append(files, p.Cover)
	}
	for _, name := range p.PropertyNames() {
		if fp, ok := p.Properties[name].(*FilesProperty); ok {
			files = append(files, fp.Files...)
		}
	}
	return files
}

// DecodePage decodes a page object record.
func DecodePage(rec Record) (*Page, error) {
	f := newFields(rec, "")
	p := &Page{}
	var err error
	if p.ID, err = f.id("id"); err != nil {
		return nil, err
	}
	if p.CreatedTime, err = f.time("created_time"); err != nil {
		return nil, err
	}
	if p.LastEditedTime, err = f.time("last_edited_time"); err != nil {
		return nil, err
	}
	if p.CreatedBy, err = decodeOptUser(f, "created_by"); err != nil {
		return nil, err
	}
	if p.LastEditedBy, err = decodeOptUser(f, "last_edited_by"); err != nil {
		return nil, err
	}
	if p.Archived, err = f.optBool("archived"); err != nil {
		return nil, err
	}
	if p.Icon, err = decodeOptFile(f, "icon"); err != nil {
		return nil, err
	}
	if p.Cover, err = decodeOptFile(f, "cover"); err != nil {
		return nil, err
	}
	parent, err := f.obj("parent")
	if err != nil {
		return nil, err
	}
	if p.Parent, err = decodeParent(parent); err != nil {
		return nil, err
	}
	if p.URL, err = f.optStr("url"); err != nil {
		return nil, err
	}

	props, err := f.obj("properties")
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(props.rec))
	for name := range props.rec {
		names = append(names, name)
	}
	sort.Strings(names)

	p.Properties = make(map[string]PropertyValue, len(props.rec))
	for _, name := range names {
		raw := props.rec[name]
		rec, ok := raw.(map[string]any)
		if !ok {
			return nil, invalidField(props.at(name), raw)
		}
		value, err := decodePropertyValue(newFields(rec, props.at(name)))
		if err != nil {
			return nil, err
		}
		p.Properties[name] = value
	}
	return p, nil
}

// List is one page of a paginated list response. Results stay undecoded
// records; the caller picks the decoder for the object type.
type List struct {
	Results    []Record
	NextCursor string
	HasMore    bool
}

// DecodeList decodes a list envelope.
func DecodeList(rec Record) (*List, error) {
	f := newFields(rec, "")
	l := &List{}
	err := f.each("results", func(item fields) error {
		l.Results = append(l.Results, item.rec)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if l.HasMore, err = f.optBool("has_more"); err != nil {
		return nil, err
	}
	if l.NextCursor, err = f.optStr("next_cursor"); err != nil {
		return nil, err
	}
	return l, nil
}

// UnmarshalPage decodes a JSON page object.
func UnmarshalPage(data []byte) (*Page, error) {
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to parse page JSON: %w", err)
	}
	return DecodePage(rec)
}

// UnmarshalList decodes a JSON list envelope.
func UnmarshalList(data []byte) (*List, error) {
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to parse list JSON: %w", err)
	}
	return DecodeList(rec)
}
