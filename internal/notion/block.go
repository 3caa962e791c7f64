package notion

import (
	"time"

	"github.com/google/uuid"
)

// BlockKind is the wire discriminator of a block.
type BlockKind string

const (
	KindParagraph        BlockKind = "paragraph"
	KindHeading1         BlockKind = "heading_1"
	KindHeading2         BlockKind = "heading_2"
	KindHeading3         BlockKind = "heading_3"
	KindBulletedListItem BlockKind = "bulleted_list_item"
	KindNumberedListItem BlockKind = "numbered_list_item"
	KindToDo             BlockKind = "to_do"
	KindToggle           BlockKind = "toggle"
	KindQuote            BlockKind = "quote"
	KindCallout          BlockKind = "callout"
	KindCode             BlockKind = "code"
	KindBookmark         BlockKind = "bookmark"
	KindEmbed            BlockKind = "embed"
	KindEquation         BlockKind = "equation"
	KindFile             BlockKind = "file"
	KindImage            BlockKind = "image"
	KindVideo            BlockKind = "video"
	KindAudio            BlockKind = "audio"
	KindPDF              BlockKind = "pdf"
	KindDivider          BlockKind = "divider"
	KindTableOfContents  BlockKind = "table_of_contents"
	KindBreadcrumb       BlockKind = "breadcrumb"
	KindColumnList       BlockKind = "column_list"
	KindColumn           BlockKind = "column"
	KindUnsupported      BlockKind = "unsupported"
)

// Block is one node of a page's content tree.
type Block interface {
	Base() BlockBase
	Kind() BlockKind
}

// BlockBase holds the fields common to every block kind.
//
// HasChildren is the server's hint; Children holds what was actually
// decoded, which is empty when the children were never fetched.
type BlockBase struct {
	ID             uuid.UUID
	Parent         Parent
	CreatedTime    time.Time
	LastEditedTime time.Time
	CreatedBy      User
	LastEditedBy   User
	HasChildren    bool
	Archived       bool
	Children       []Block
}

func (b BlockBase) Base() BlockBase { return b }

type Paragraph struct {
	BlockBase
	Text  []RichText
	Color Color
}

func (*Paragraph) Kind() BlockKind { return KindParagraph }

// Heading is shared by the three heading levels.
type Heading struct {
	Text       []RichText
	Color      Color
	Toggleable bool
}

type Heading1 struct {
	BlockBase
	Heading
}

func (*Heading1) Kind() BlockKind { return KindHeading1 }

type Heading2 struct {
	BlockBase
	Heading
}

func (*Heading2) Kind() BlockKind { return KindHeading2 }

type Heading3 struct {
	BlockBase
	Heading
}

func (*Heading3) Kind() BlockKind { return KindHeading3 }

type BulletedListItem struct {
	BlockBase
	Text  []RichText
	Color Color
}

func (*BulletedListItem) Kind() BlockKind { return KindBulletedListItem }

type NumberedListItem struct {
	BlockBase
	Text  []RichText
	Color Color
}

func (*NumberedListItem) Kind() BlockKind { return KindNumberedListItem }

type ToDo struct {
	BlockBase
	Text    []RichText
	Checked bool
	Color   Color
}

func (*ToDo) Kind() BlockKind { return KindToDo }

type Toggle struct {
	BlockBase
	Text  []RichText
	Color Color
}

func (*Toggle) Kind() BlockKind { return KindToggle }

type Quote struct {
	BlockBase
	Text  []RichText
	Color Color
}

func (*Quote) Kind() BlockKind { return KindQuote }

// BlockFiles returns the file references held by b itself: the file of a
// media block or the icon of a callout.
func BlockFiles(b Block) []File {
	if f, ok := MediaFile(b); ok && f != nil {
		return []File{f}
	}
	if c, ok := b.(*Callout); ok && c.Icon != nil {
		return []File{c.Icon}
	}
	return nil
}

// Callout is highlighted text with an optional icon.
type Callout struct {
	BlockBase
	Text  []RichText
	Icon  File
	Color Color
}

func (*Callout) Kind() BlockKind { return KindCallout }

type Code struct {
	BlockBase
	Text     []RichText
	Caption  []RichText
	Language string
}

func (*Code) Kind() BlockKind { return KindCode }

type Bookmark struct {
	BlockBase
	URL     string
	Caption []RichText
}

func (*Bookmark) Kind() BlockKind { return KindBookmark }

type Embed struct {
	BlockBase
	URL     string
	Caption []RichText
}

func (*Embed) Kind() BlockKind { return KindEmbed }

// Equation is a display TeX expression.
type Equation struct {
	BlockBase
	Expression string
}

func (*Equation) Kind() BlockKind { return KindEquation }

type FileBlock struct {
	BlockBase
	File File
}

func (*FileBlock) Kind() BlockKind { return KindFile }

type Image struct {
	BlockBase
	File File
}

func (*Image) Kind() BlockKind { return KindImage }

type Video struct {
	BlockBase
	File File
}

func (*Video) Kind() BlockKind { return KindVideo }

type Audio struct {
	BlockBase
	File File
}

func (*Audio) Kind() BlockKind { return KindAudio }

type PDF struct {
	BlockBase
	File File
}

func (*PDF) Kind() BlockKind { return KindPDF }

type Divider struct {
	BlockBase
}

func (*Divider) Kind() BlockKind { return KindDivider }

type TableOfContents struct {
	BlockBase
	Color Color
}

func (*TableOfContents) Kind() BlockKind { return KindTableOfContents }

type Breadcrumb struct {
	BlockBase
}

func (*Breadcrumb) Kind() BlockKind { return KindBreadcrumb }

type ColumnList struct {
	BlockBase
}

func (*ColumnList) Kind() BlockKind { return KindColumnList }

type Column struct {
	BlockBase
}

func (*Column) Kind() BlockKind { return KindColumn }

// Unsupported stands in for any block kind this package does not model.
// It keeps identity, timestamps and parent; the payload is dropped. Type
// holds the original discriminator.
type Unsupported struct {
	BlockBase
	Type string
}

func (*Unsupported) Kind() BlockKind { return KindUnsupported }

// MediaFile returns the file of a file, image, video, audio or PDF block.
func MediaFile(b Block) (File, bool) {
	switch b := b.(type) {
	case *FileBlock:
		return b.File, true
	case *Image:
		return b.File, true
	case *Video:
		return b.File, true
	case *Audio:
		return b.File, true
	case *PDF:
		return b.File, true
	default:
		return nil, false
	}
}
