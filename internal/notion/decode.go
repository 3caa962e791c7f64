package notion

import (
	"encoding/json"
	"fmt"
	"sort"
)

type blockDecoder func(payload fields, base BlockBase) (Block, error)

// blockDecoders maps each modelled discriminator to the decoder of its
// payload. Kinds missing from the table decode to *Unsupported.
var blockDecoders = map[BlockKind]blockDecoder{
	KindParagraph: func(p fields, base BlockBase) (Block, error) {
		text, color, err := decodeTextPayload(p)
		if err != nil {
			return nil, err
		}
		return &Paragraph{BlockBase: base, Text: text, Color: color}, nil
	},
	KindHeading1: func(p fields, base BlockBase) (Block, error) {
		h, err := decodeHeading(p)
		if err != nil {
			return nil, err
		}
		return &Heading1{BlockBase: base, Heading: h}, nil
	},
	KindHeading2: func(p fields, base BlockBase) (Block, error) {
		h, err := decodeHeading(p)
		if err != nil {
			return nil, err
		}
		return &Heading2{BlockBase: base, Heading: h}, nil
	},
	KindHeading3: func(p fields, base BlockBase) (Block, error) {
		h, err := decodeHeading(p)
		if err != nil {
			return nil, err
		}
		return &Heading3{BlockBase: base, Heading: h}, nil
	},
	KindBulletedListItem: func(p fields, base BlockBase) (Block, error) {
		text, color, err := decodeTextPayload(p)
		if err != nil {
			return nil, err
		}
		return &BulletedListItem{BlockBase: base, Text: text, Color: color}, nil
	},
	KindNumberedListItem: func(p fields, base BlockBase) (Block, error) {
		text, color, err := decodeTextPayload(p)
		if err != nil {
			return nil, err
		}
		return &NumberedListItem{BlockBase: base, Text: text, Color: color}, nil
	},
	KindToDo: func(p fields, base BlockBase) (Block, error) {
		text, color, err := decodeTextPayload(p)
		if err != nil {
			return nil, err
		}
		checked, err := p.boolean("checked")
		if err != nil {
			return nil, err
		}
		return &ToDo{BlockBase: base, Text: text, Checked: checked, Color: color}, nil
	},
	KindToggle: func(p fields, base BlockBase) (Block, error) {
		text, color, err := decodeTextPayload(p)
		if err != nil {
			return nil, err
		}
		return &Toggle{BlockBase: base, Text: text, Color: color}, nil
	},
	KindQuote: func(p fields, base BlockBase) (Block, error) {
		text, color, err := decodeTextPayload(p)
		if err != nil {
			return nil, err
		}
		return &Quote{BlockBase: base, Text: text, Color: color}, nil
	},
	KindCallout: func(p fields, base BlockBase) (Block, error) {
		text, color, err := decodeTextPayload(p)
		if err != nil {
			return nil, err
		}
		icon, err := decodeOptFile(p, "icon")
		if err != nil {
			return nil, err
		}
		return &Callout{BlockBase: base, Text: text, Icon: icon, Color: color}, nil
	},
	KindCode: func(p fields, base BlockBase) (Block, error) {
		text, err := decodeBlockText(p)
		if err != nil {
			return nil, err
		}
		language, err := p.str("language")
		if err != nil {
			return nil, err
		}
		caption, err := decodeOptCaption(p)
		if err != nil {
			return nil, err
		}
		return &Code{BlockBase: base, Text: text, Caption: caption, Language: language}, nil
	},
	KindBookmark: func(p fields, base BlockBase) (Block, error) {
		url, caption, err := decodeLinkPayload(p)
		if err != nil {
			return nil, err
		}
		return &Bookmark{BlockBase: base, URL: url, Caption: caption}, nil
	},
	KindEmbed: func(p fields, base BlockBase) (Block, error) {
		url, caption, err := decodeLinkPayload(p)
		if err != nil {
			return nil, err
		}
		return &Embed{BlockBase: base, URL: url, Caption: caption}, nil
	},
	KindEquation: func(p fields, base BlockBase) (Block, error) {
		expression, err := p.str("expression")
		if err != nil {
			return nil, err
		}
		return &Equation{BlockBase: base, Expression: expression}, nil
	},
	KindFile: func(p fields, base BlockBase) (Block, error) {
		file, err := decodeFile(p)
		if err != nil {
			return nil, err
		}
		return &FileBlock{BlockBase: base, File: file}, nil
	},
	KindImage: func(p fields, base BlockBase) (Block, error) {
		file, err := decodeFile(p)
		if err != nil {
			return nil, err
		}
		return &Image{BlockBase: base, File: file}, nil
	},
	KindVideo: func(p fields, base BlockBase) (Block, error) {
		file, err := decodeFile(p)
		if err != nil {
			return nil, err
		}
		return &Video{BlockBase: base, File: file}, nil
	},
	KindAudio: func(p fields, base BlockBase) (Block, error) {
		file, err := decodeFile(p)
		if err != nil {
			return nil, err
		}
		return &Audio{BlockBase: base, File: file}, nil
	},
	KindPDF: func(p fields, base BlockBase) (Block, error) {
		file, err := decodeFile(p)
		if err != nil {
			return nil, err
		}
		return &PDF{BlockBase: base, File: file}, nil
	},
	KindDivider: func(_ fields, base BlockBase) (Block, error) {
		return &Divider{BlockBase: base}, nil
	},
	KindTableOfContents: func(p fields, base BlockBase) (Block, error) {
		color, err := optColor(p, "color")
		if err != nil {
			return nil, err
		}
		return &TableOfContents{BlockBase: base, Color: color}, nil
	},
	KindBreadcrumb: func(_ fields, base BlockBase) (Block, error) {
		return &Breadcrumb{BlockBase: base}, nil
	},
	KindColumnList: func(_ fields, base BlockBase) (Block, error) {
		return &ColumnList{BlockBase: base}, nil
	},
	KindColumn: func(_ fields, base BlockBase) (Block, error) {
		return &Column{BlockBase: base}, nil
	},
}

// BlockKinds lists every modelled block kind plus KindUnsupported, sorted.
func BlockKinds() []BlockKind {
	kinds := make([]BlockKind, 0, len(blockDecoders)+1)
	for kind := range blockDecoders {
		kinds = append(kinds, kind)
	}
	kinds = append(kinds, KindUnsupported)
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// DecodeBlock decodes one block record, including any children embedded
// in its payload. Unknown kinds decode to *Unsupported.
func DecodeBlock(rec Record) (Block, error) {
	return decodeBlock(newFields(rec, ""))
}

// DecodeBlocks decodes an array of block records in order. Any failing
// element fails the whole array.
func DecodeBlocks(items []any) ([]Block, error) {
	return decodeBlockItems(items, "")
}

func decodeBlockItems(items []any, path string) ([]Block, error) {
	blocks := make([]Block, 0, len(items))
	err := eachRecord(items, path, func(item fields) error {
		b, err := decodeBlock(item)
		if err != nil {
			return err
		}
		blocks = append(blocks, b)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return blocks, nil
}

func decodeBlock(f fields) (Block, error) {
	kind, err := f.str("type")
	if err != nil {
		return nil, err
	}
	base, err := decodeBlockBase(f)
	if err != nil {
		return nil, err
	}

	decode, ok := blockDecoders[BlockKind(kind)]
	if !ok {
		return &Unsupported{BlockBase: base, Type: kind}, nil
	}

	payload, err := f.obj(kind)
	if err != nil {
		return nil, err
	}
	if payload.has("children") {
		items, err := payload.arr("children")
		if err != nil {
			return nil, err
		}
		if base.Children, err = decodeBlockItems(items, payload.at("children")); err != nil {
			return nil, err
		}
	}
	return decode(payload, base)
}

func decodeBlockBase(f fields) (BlockBase, error) {
	var base BlockBase
	var err error
	if base.ID, err = f.id("id"); err != nil {
		return BlockBase{}, err
	}
	if base.CreatedTime, err = f.time("created_time"); err != nil {
		return BlockBase{}, err
	}
	if base.LastEditedTime, err = f.time("last_edited_time"); err != nil {
		return BlockBase{}, err
	}
	parent, err := f.obj("parent")
	if err != nil {
		return BlockBase{}, err
	}
	if base.Parent, err = decodeParent(parent); err != nil {
		return BlockBase{}, err
	}
	if base.CreatedBy, err = decodeOptUser(f, "created_by"); err != nil {
		return BlockBase{}, err
	}
	if base.LastEditedBy, err = decodeOptUser(f, "last_edited_by"); err != nil {
		return BlockBase{}, err
	}
	if base.HasChildren, err = f.optBool("has_children"); err != nil {
		return BlockBase{}, err
	}
	if base.Archived, err = f.optBool("archived"); err != nil {
		return BlockBase{}, err
	}
	return base, nil
}

func decodeTextPayload(p fields) ([]RichText, Color, error) {
	text, err := decodeBlockText(p)
	if err != nil {
		return nil, "", err
	}
	color, err := optColor(p, "color")
	if err != nil {
		return nil, "", err
	}
	return text, color, nil
}

func decodeHeading(p fields) (Heading, error) {
	text, color, err := decodeTextPayload(p)
	if err != nil {
		return Heading{}, err
	}
	toggleable, err := p.optBool("is_toggleable")
	if err != nil {
		return Heading{}, err
	}
	return Heading{Text: text, Color: color, Toggleable: toggleable}, nil
}

func decodeOptCaption(p fields) ([]RichText, error) {
	if !p.has("caption") {
		return nil, nil
	}
	return decodeRichTextArray(p, "caption")
}

func decodeLinkPayload(p fields) (string, []RichText, error) {
	url, err := p.str("url")
	if err != nil {
		return "", nil, err
	}
	caption, err := decodeOptCaption(p)
	if err != nil {
		return "", nil, err
	}
	return url, caption, nil
}

// UnmarshalBlock decodes a JSON block object.
func UnmarshalBlock(data []byte) (Block, error) {
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to parse block JSON: %w", err)
	}
	return DecodeBlock(rec)
}
