package notion

import (
	"time"

	"github.com/google/uuid"
)

// PropertyType is the wire discriminator of a page property value.
type PropertyType string

const (
	PropertyTitle          PropertyType = "title"
	PropertyRichText       PropertyType = "rich_text"
	PropertyNumber         PropertyType = "number"
	PropertySelect         PropertyType = "select"
	PropertyMultiSelect    PropertyType = "multi_select"
	PropertyStatus         PropertyType = "status"
	PropertyDate           PropertyType = "date"
	PropertyCheckbox       PropertyType = "checkbox"
	PropertyURL            PropertyType = "url"
	PropertyEmail          PropertyType = "email"
	PropertyPhoneNumber    PropertyType = "phone_number"
	PropertyPeople         PropertyType = "people"
	PropertyFiles          PropertyType = "files"
	PropertyRelation       PropertyType = "relation"
	PropertyFormula        PropertyType = "formula"
	PropertyCreatedTime    PropertyType = "created_time"
	PropertyLastEditedTime PropertyType = "last_edited_time"
	PropertyCreatedBy      PropertyType = "created_by"
	PropertyLastEditedBy   PropertyType = "last_edited_by"
)

// PropertyValue is the value of one page property.
type PropertyValue interface {
	PropertyID() string
	Type() PropertyType
}

type PropertyBase struct {
	ID string
}

func (b PropertyBase) PropertyID() string { return b.ID }

// DateValue is a date or date range. DateOnly is set when the wire value
// carried no time of day.
type DateValue struct {
	Start    time.Time
	End      time.Time
	TimeZone string
	DateOnly bool
}

// SelectOption is one choice of a select, multi-select or status property.
type SelectOption struct {
	ID    string
	Name  string
	Color Color
}

type TitleProperty struct {
	PropertyBase
	Text []RichText
}

func (*TitleProperty) Type() PropertyType { return PropertyTitle }

type RichTextProperty struct {
	PropertyBase
	Text []RichText
}

func (*RichTextProperty) Type() PropertyType { return PropertyRichText }

// NumberProperty holds nil when the number is empty.
type NumberProperty struct {
	PropertyBase
	Value *float64
}

func (*NumberProperty) Type() PropertyType { return PropertyNumber }

type SelectProperty struct {
	PropertyBase
	Option *SelectOption
}

func (*SelectProperty) Type() PropertyType { return PropertySelect }

type MultiSelectProperty struct {
	PropertyBase
	Options []SelectOption
}

func (*MultiSelectProperty) Type() PropertyType { return PropertyMultiSelect }

type StatusProperty struct {
	PropertyBase
	Option *SelectOption
}

func (*StatusProperty) Type() PropertyType { return PropertyStatus }

type DateProperty struct {
	PropertyBase
	Value *DateValue
}

func (*DateProperty) Type() PropertyType { return PropertyDate }

type CheckboxProperty struct {
	PropertyBase
	Checked bool
}

func (*CheckboxProperty) Type() PropertyType { return PropertyCheckbox }

type URLProperty struct {
	PropertyBase
	URL string
}

func (*URLProperty) Type() PropertyType { return PropertyURL }

type EmailProperty struct {
	PropertyBase
	Email string
}

func (*EmailProperty) Type() PropertyType { return PropertyEmail }

type PhoneNumberProperty struct {
	PropertyBase
	PhoneNumber string
}

func (*PhoneNumberProperty) Type() PropertyType { return PropertyPhoneNumber }

type PeopleProperty struct {
	PropertyBase
	People []User
}

func (*PeopleProperty) Type() PropertyType { return PropertyPeople }

type FilesProperty struct {
	PropertyBase
	Files []File
}

func (*FilesProperty) Type() PropertyType { return PropertyFiles }

type RelationProperty struct {
	PropertyBase
	IDs []uuid.UUID
}

func (*RelationProperty) Type() PropertyType { return PropertyRelation }

// FormulaResult holds the computed value; Type is one of "string",
// "number", "boolean" or "date" and selects the populated field.
type FormulaResult struct {
	Type    string
	String  string
	Number  *float64
	Boolean bool
	Date    *DateValue
}

type FormulaProperty struct {
	PropertyBase
	Result FormulaResult
}

func (*FormulaProperty) Type() PropertyType { return PropertyFormula }

type CreatedTimeProperty struct {
	PropertyBase
	Time time.Time
}

func (*CreatedTimeProperty) Type() PropertyType { return PropertyCreatedTime }

type LastEditedTimeProperty struct {
	PropertyBase
	Time time.Time
}

func (*LastEditedTimeProperty) Type() PropertyType { return PropertyLastEditedTime }

type CreatedByProperty struct {
	PropertyBase
	User User
}

func (*CreatedByProperty) Type() PropertyType { return PropertyCreatedBy }

type LastEditedByProperty struct {
	PropertyBase
	User User
}

func (*LastEditedByProperty) Type() PropertyType { return PropertyLastEditedBy }

type propertyDecoder func(f fields, base PropertyBase) (PropertyValue, error)

var propertyDecoders = map[PropertyType]propertyDecoder{
	PropertyTitle: func(f fields, base PropertyBase) (PropertyValue, error) {
		text, err := decodeRichTextArray(f, "title")
		if err != nil {
			return nil, err
		}
		return &TitleProperty{PropertyBase: base, Text: text}, nil
	},
	PropertyRichText: func(f fields, base PropertyBase) (PropertyValue, error) {
		text, err := decodeRichTextArray(f, "rich_text")
		if err != nil {
			return nil, err
		}
		return &RichTextProperty{PropertyBase: base, Text: text}, nil
	},
	PropertyNumber: func(f fields, base PropertyBase) (PropertyValue, error) {
		p := &NumberProperty{PropertyBase: base}
		if f.has("number") {
			n, err := f.number("number")
			if err != nil {
				return nil, err
			}
			p.Value = &n
		}
		return p, nil
	},
	PropertySelect: func(f fields, base PropertyBase) (PropertyValue, error) {
		option, err := decodeOptSelectOption(f, "select")
		if err != nil {
			return nil, err
		}
		return &SelectProperty{PropertyBase: base, Option: option}, nil
	},
	PropertyMultiSelect: func(f fields, base PropertyBase) (PropertyValue, error) {
		p := &MultiSelectProperty{PropertyBase: base}
		err := f.each("multi_select", func(item fields) error {
			option, err := decodeSelectOption(item)
			if err != nil {
				return err
			}
			p.Options = append(p.Options, option)
			return nil
		})
		if err != nil {
			return nil, err
		}
		return p, nil
	},
	PropertyStatus: func(f fields, base PropertyBase) (PropertyValue, error) {
		option, err := decodeOptSelectOption(f, "status")
		if err != nil {
			return nil, err
		}
		return &StatusProperty{PropertyBase: base, Option: option}, nil
	},
	PropertyDate: func(f fields, base PropertyBase) (PropertyValue, error) {
		p := &DateProperty{PropertyBase: base}
		if f.has("date") {
			date, err := f.obj("date")
			if err != nil {
				return nil, err
			}
			if p.Value, err = decodeDateValue(date); err != nil {
				return nil, err
			}
		}
		return p, nil
	},
	PropertyCheckbox: func(f fields, base PropertyBase) (PropertyValue, error) {
		checked, err := f.boolean("checkbox")
		if err != nil {
			return nil, err
		}
		return &CheckboxProperty{PropertyBase: base, Checked: checked}, nil
	},
	PropertyURL: func(f fields, base PropertyBase) (PropertyValue, error) {
		url, err := f.optStr("url")
		if err != nil {
			return nil, err
		}
		return &URLProperty{PropertyBase: base, URL: url}, nil
	},
	PropertyEmail: func(f fields, base PropertyBase) (PropertyValue, error) {
		email, err := f.optStr("email")
		if err != nil {
			return nil, err
		}
		return &EmailProperty{PropertyBase: base, Email: email}, nil
	},
	PropertyPhoneNumber: func(f fields, base PropertyBase) (PropertyValue, error) {
		phone, err := f.optStr("phone_number")
		if err != nil {
			return nil, err
		}
		return &PhoneNumberProperty{PropertyBase: base, PhoneNumber: phone}, nil
	},
	PropertyPeople: func(f fields, base PropertyBase) (PropertyValue, error) {
		p := &PeopleProperty{PropertyBase: base}
		err := f.each("people", func(item fields) error {
			u, err := decodeUser(item)
			if err != nil {
				return err
			}
			p.People = append(p.People, u)
			return nil
		})
		if err != nil {
			return nil, err
		}
		return p, nil
	},
	PropertyFiles: func(f fields, base PropertyBase) (PropertyValue, error) {
		p := &FilesProperty{PropertyBase: base}
		err := f.each("files", func(item fields) error {
			file, err := decodeFile(item)
			if err != nil {
				return err
			}
			p.Files = append(p.Files, file)
			return nil
		})
		if err != nil {
			return nil, err
		}
		return p, nil
	},
	PropertyRelation: func(f fields, base PropertyBase) (PropertyValue, error) {
		p := &RelationProperty{PropertyBase: base}
		err := f.each("relation", func(item fields) error {
			id, err := item.id("id")
			if err != nil {
				return err
			}
			p.IDs = append(p.IDs, id)
			return nil
		})
		if err != nil {
			return nil, err
		}
		return p, nil
	},
	PropertyFormula: func(f fields, base PropertyBase) (PropertyValue, error) {
		formula, err := f.obj("formula")
		if err != nil {
			return nil, err
		}
		result, err := decodeFormulaResult(formula)
		if err != nil {
			return nil, err
		}
		return &FormulaProperty{PropertyBase: base, Result: result}, nil
	},
	PropertyCreatedTime: func(f fields, base PropertyBase) (PropertyValue, error) {
		t, err := f.time("created_time")
		if err != nil {
			return nil, err
		}
		return &CreatedTimeProperty{PropertyBase: base, Time: t}, nil
	},
	PropertyLastEditedTime: func(f fields, base PropertyBase) (PropertyValue, error) {
		t, err := f.time("last_edited_time")
		if err != nil {
			return nil, err
		}
		return &LastEditedTimeProperty{PropertyBase: base, Time: t}, nil
	},
	PropertyCreatedBy: func(f fields, base PropertyBase) (PropertyValue, error) {
		u, err := f.obj("created_by")
		if err != nil {
			return nil, err
		}
		user, err := decodeUser(u)
		if err != nil {
			return nil, err
		}
		return &CreatedByProperty{PropertyBase: base, User: user}, nil
	},
	PropertyLastEditedBy: func(f fields, base PropertyBase) (PropertyValue, error) {
		u, err := f.obj("last_edited_by")
		if err != nil {
			return nil, err
		}
		user, err := decodeUser(u)
		if err != nil {
			return nil, err
		}
		return &LastEditedByProperty{PropertyBase: base, User: user}, nil
	},
}

// DecodePropertyValue decodes one page property value record.
func DecodePropertyValue(rec Record) (PropertyValue, error) {
	return decodePropertyValue(newFields(rec, ""))
}

func decodePropertyValue(f fields) (PropertyValue, error) {
	kind, err := f.str("type")
	if err != nil {
		return nil, err
	}
	decode, ok := propertyDecoders[PropertyType(kind)]
	if !ok {
		return nil, unknownVariant(f.at("type"), kind)
	}
	id, err := f.optStr("id")
	if err != nil {
		return nil, err
	}
	return decode(f, PropertyBase{ID: id})
}

func decodeSelectOption(f fields) (SelectOption, error) {
	var o SelectOption
	var err error
	if o.ID, err = f.optStr("id"); err != nil {
		return SelectOption{}, err
	}
	if o.Name, err = f.str("name"); err != nil {
		return SelectOption{}, err
	}
	if o.Color, err = optColor(f, "color"); err != nil {
		return SelectOption{}, err
	}
	return o, nil
}

func decodeOptSelectOption(f fields, name string) (*SelectOption, error) {
	if !f.has(name) {
		return nil, nil
	}
	obj, err := f.obj(name)
	if err != nil {
		return nil, err
	}
	option, err := decodeSelectOption(obj)
	if err != nil {
		return nil, err
	}
	return &option, nil
}

const dateLayout = "2006-01-02"

func parseDate(f fields, name string) (time.Time, bool, error) {
	s, err := f.str(name)
	if err != nil {
		return time.Time{}, false, err
	}
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t, true, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, false, invalidField(f.at(name), s)
	}
	return t, false, nil
}

func decodeDateValue(f fields) (*DateValue, error) {
	var d DateValue
	var err error
	if d.Start, d.DateOnly, err = parseDate(f, "start"); err != nil {
		return nil, err
	}
	if f.has("end") {
		if d.End, _, err = parseDate(f, "end"); err != nil {
			return nil, err
		}
	}
	if d.TimeZone, err = f.optStr("time_zone"); err != nil {
		return nil, err
	}
	return &d, nil
}

func decodeFormulaResult(f fields) (FormulaResult, error) {
	kind, err := f.str("type")
	if err != nil {
		return FormulaResult{}, err
	}
	r := FormulaResult{Type: kind}
	switch kind {
	case "string":
		r.String, err = f.optStr("string")
	case "number":
		if f.has("number") {
			var n float64
			n, err = f.number("number")
			r.Number = &n
		}
	case "boolean":
		r.Boolean, err = f.optBool("boolean")
	case "date":
		if f.has("date") {
			var date fields
			if date, err = f.obj("date"); err == nil {
				r.Date, err = decodeDateValue(date)
			}
		}
	default:
		return FormulaResult{}, unknownVariant(f.at("type"), kind)
	}
	if err != nil {
		return FormulaResult{}, err
	}
	return r, nil
}
