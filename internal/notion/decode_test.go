package notion

import (
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
)

var (
	testPageID  = uuid.MustParse("8c2f1e0a-3d4b-4e5f-9a6b-7c8d9e0f1a2b")
	testBlockID = uuid.MustParse("5b1b4a8f-6a5c-4c53-9c1a-0f3b0c8e2d11")
	testUserID  = uuid.MustParse("e1d2c3b4-a5f6-4789-8abc-def012345678")
)

func plainAnnotations() map[string]any {
	return map[string]any{
		"bold": false, "italic": false, "strikethrough": false,
		"underline": false, "code": false, "color": "default",
	}
}

func textRecord(content string) map[string]any {
	return map[string]any{
		"type":        "text",
		"text":        map[string]any{"content": content, "link": nil},
		"annotations": plainAnnotations(),
		"plain_text":  content,
		"href":        nil,
	}
}

func blockRecord(kind string, payload map[string]any) map[string]any {
	return map[string]any{
		"object":           "block",
		"id":               uuid.NewString(),
		"parent":           map[string]any{"type": "page_id", "page_id": testPageID.String()},
		"created_time":     "2023-03-26T20:00:00.000Z",
		"last_edited_time": "2023-03-26T20:00:00.000Z",
		"has_children":     false,
		"archived":         false,
		"type":             kind,
		kind:               payload,
	}
}

func without(rec map[string]any, key string) map[string]any {
	delete(rec, key)
	return rec
}

func runs(contents ...string) []any {
	items := make([]any, 0, len(contents))
	for _, c := range contents {
		items = append(items, textRecord(c))
	}
	return items
}

func TestUnmarshalParagraph(t *testing.T) {
	data, err := os.ReadFile("testdata/paragraph.json")
	if err != nil {
		t.Fatalf("Failed to read paragraph fixture: %v", err)
	}

	block, err := UnmarshalBlock(data)
	if err != nil {
		t.Fatalf("UnmarshalBlock failed: %v", err)
	}

	paragraph, ok := block.(*Paragraph)
	if !ok {
		t.Fatalf("Expected *Paragraph, got %T", block)
	}
	if paragraph.ID != testBlockID {
		t.Errorf("ID = %v, want %v", paragraph.ID, testBlockID)
	}
	if want := time.Date(2023, 3, 26, 19, 27, 0, 0, time.UTC); !paragraph.CreatedTime.Equal(want) {
		t.Errorf("CreatedTime = %v, want %v", paragraph.CreatedTime, want)
	}
	if want := time.Date(2023, 3, 27, 5, 51, 0, 0, time.UTC); !paragraph.LastEditedTime.Equal(want) {
		t.Errorf("LastEditedTime = %v, want %v", paragraph.LastEditedTime, want)
	}
	if paragraph.Archived || paragraph.HasChildren {
		t.Error("Expected archived and has_children to be false")
	}
	if paragraph.Color != ColorDefault {
		t.Errorf("Color = %q, want default", paragraph.Color)
	}
	if parent, ok := paragraph.Parent.(PageParent); !ok || parent.ID != testPageID {
		t.Errorf("Parent = %#v, want page %v", paragraph.Parent, testPageID)
	}
	if paragraph.CreatedBy.UserID() != testUserID || paragraph.LastEditedBy.UserID() != testUserID {
		t.Error("Expected created_by and last_edited_by to reference the test user")
	}

	if len(paragraph.Text) != 1 {
		t.Fatalf("Expected 1 rich text run, got %d", len(paragraph.Text))
	}
	want := &Text{
		RichTextBase: RichTextBase{
			PlainText:   "Paragraph",
			Annotations: Annotations{Color: ColorDefault},
		},
		Content: "Paragraph",
	}
	if diff := cmp.Diff(want, paragraph.Text[0]); diff != "" {
		t.Errorf("Rich text mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeBlockKinds(t *testing.T) {
	external := map[string]any{
		"type":     "external",
		"external": map[string]any{"url": "https://example.com/sample.pdf"},
		"caption":  runs("File with caption"),
	}

	tests := []struct {
		name    string
		kind    string
		payload map[string]any
		want    BlockKind
		check   func(t *testing.T, b Block)
	}{
		{
			name:    "paragraph",
			kind:    "paragraph",
			payload: map[string]any{"rich_text": runs("Paragraph"), "color": "default"},
			want:    KindParagraph,
		},
		{
			name:    "toggled heading",
			kind:    "heading_1",
			payload: map[string]any{"rich_text": runs("Toggled Heading 1"), "is_toggleable": true, "color": "default"},
			want:    KindHeading1,
			check: func(t *testing.T, b Block) {
				if !b.(*Heading1).Toggleable {
					t.Error("Expected heading to be toggleable")
				}
			},
		},
		{
			name:    "heading 2",
			kind:    "heading_2",
			payload: map[string]any{"rich_text": runs("Heading 2"), "color": "default"},
			want:    KindHeading2,
		},
		{
			name:    "heading 3",
			kind:    "heading_3",
			payload: map[string]any{"rich_text": runs("Heading 3"), "color": "default"},
			want:    KindHeading3,
		},
		{
			name:    "bulleted list item",
			kind:    "bulleted_list_item",
			payload: map[string]any{"rich_text": runs("Bulleted list item"), "color": "default"},
			want:    KindBulletedListItem,
		},
		{
			name:    "numbered list item",
			kind:    "numbered_list_item",
			payload: map[string]any{"rich_text": runs("Numbered list item"), "color": "default"},
			want:    KindNumberedListItem,
		},
		{
			name:    "to do",
			kind:    "to_do",
			payload: map[string]any{"rich_text": runs("to do"), "checked": true, "color": "default"},
			want:    KindToDo,
			check: func(t *testing.T, b Block) {
				if !b.(*ToDo).Checked {
					t.Error("Expected to-do to be checked")
				}
			},
		},
		{
			name:    "toggle",
			kind:    "toggle",
			payload: map[string]any{"rich_text": runs("Toggle list"), "color": "default"},
			want:    KindToggle,
		},
		{
			name:    "quote",
			kind:    "quote",
			payload: map[string]any{"rich_text": runs("Quote"), "color": "default"},
			want:    KindQuote,
		},
		{
			name: "callout with emoji icon",
			kind: "callout",
			payload: map[string]any{
				"rich_text": runs("Callout"),
				"icon":      map[string]any{"type": "emoji", "emoji": "💡"},
				"color":     "gray_background",
			},
			want: KindCallout,
			check: func(t *testing.T, b Block) {
				callout := b.(*Callout)
				icon, ok := callout.Icon.(*EmojiFile)
				if !ok || icon.Emoji != "💡" {
					t.Errorf("Icon = %#v, want emoji 💡", callout.Icon)
				}
				if !callout.Color.IsBackground() {
					t.Errorf("Color %q should be a background color", callout.Color)
				}
			},
		},
		{
			name:    "code",
			kind:    "code",
			payload: map[string]any{"rich_text": runs("Some Code here and there"), "caption": []any{}, "language": "javascript"},
			want:    KindCode,
			check: func(t *testing.T, b Block) {
				if lang := b.(*Code).Language; lang != "javascript" {
					t.Errorf("Language = %q, want javascript", lang)
				}
			},
		},
		{
			name:    "bookmark",
			kind:    "bookmark",
			payload: map[string]any{"url": "https://www.google.com/", "caption": []any{}},
			want:    KindBookmark,
			check: func(t *testing.T, b Block) {
				bookmark := b.(*Bookmark)
				if bookmark.URL != "https://www.google.com/" || len(bookmark.Caption) != 0 {
					t.Errorf("Unexpected bookmark %#v", bookmark)
				}
			},
		},
		{
			name:    "embed",
			kind:    "embed",
			payload: map[string]any{"url": "https://boards.greenhouse.io/notion/jobs/4750859003"},
			want:    KindEmbed,
		},
		{
			name:    "equation",
			kind:    "equation",
			payload: map[string]any{"expression": "1 + 1"},
			want:    KindEquation,
			check: func(t *testing.T, b Block) {
				if expr := b.(*Equation).Expression; expr != "1 + 1" {
					t.Errorf("Expression = %q, want 1 + 1", expr)
				}
			},
		},
		{
			name:    "file with caption",
			kind:    "file",
			payload: external,
			want:    KindFile,
			check: func(t *testing.T, b Block) {
				file, ok := b.(*FileBlock).File.(*ExternalFile)
				if !ok {
					t.Fatalf("Expected external file, got %T", b.(*FileBlock).File)
				}
				if PlainText(file.Caption) != "File with caption" {
					t.Errorf("Caption = %q", PlainText(file.Caption))
				}
			},
		},
		{name: "image", kind: "image", payload: external, want: KindImage},
		{name: "video", kind: "video", payload: external, want: KindVideo},
		{name: "audio", kind: "audio", payload: external, want: KindAudio},
		{name: "pdf", kind: "pdf", payload: external, want: KindPDF},
		{name: "divider", kind: "divider", payload: map[string]any{}, want: KindDivider},
		{name: "table of contents", kind: "table_of_contents", payload: map[string]any{"color": "default"}, want: KindTableOfContents},
		{name: "breadcrumb", kind: "breadcrumb", payload: map[string]any{}, want: KindBreadcrumb},
		{name: "column list", kind: "column_list", payload: map[string]any{}, want: KindColumnList},
		{name: "column", kind: "column", payload: map[string]any{}, want: KindColumn},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := DecodeBlock(blockRecord(tt.kind, tt.payload))
			if err != nil {
				t.Fatalf("DecodeBlock failed: %v", err)
			}
			if b.Kind() != tt.want {
				t.Fatalf("Kind() = %q, want %q", b.Kind(), tt.want)
			}
			if _, ok := b.Base().Parent.(PageParent); !ok {
				t.Errorf("Expected page parent, got %#v", b.Base().Parent)
			}
			if tt.check != nil {
				tt.check(t, b)
			}
		})
	}
}

func TestDecodeUnknownBlockFallsBackToUnsupported(t *testing.T) {
	rec := blockRecord("button", map[string]any{"label": "Click"})
	rec["has_children"] = true

	b, err := DecodeBlock(rec)
	if err != nil {
		t.Fatalf("DecodeBlock failed: %v", err)
	}

	unsupported, ok := b.(*Unsupported)
	if !ok {
		t.Fatalf("Expected *Unsupported, got %T", b)
	}
	if unsupported.Type != "button" {
		t.Errorf("Type = %q, want button", unsupported.Type)
	}
	if unsupported.ID.String() != rec["id"] {
		t.Errorf("ID = %v, want %v", unsupported.ID, rec["id"])
	}
	if !unsupported.HasChildren {
		t.Error("Expected has_children to survive the fallback")
	}
	if parent, ok := unsupported.Parent.(PageParent); !ok || parent.ID != testPageID {
		t.Errorf("Parent = %#v, want page %v", unsupported.Parent, testPageID)
	}
	if unsupported.CreatedTime.IsZero() || unsupported.LastEditedTime.IsZero() {
		t.Error("Expected timestamps to survive the fallback")
	}
}

func TestDecodeBlockErrors(t *testing.T) {
	tests := []struct {
		name     string
		record   map[string]any
		wantKind error
		wantPath string
	}{
		{
			name:     "missing rich text",
			record:   blockRecord("paragraph", map[string]any{"color": "default"}),
			wantKind: ErrMissingField,
			wantPath: "paragraph.rich_text",
		},
		{
			name:     "missing payload",
			record:   without(blockRecord("divider", map[string]any{}), "divider"),
			wantKind: ErrMissingField,
			wantPath: "divider",
		},
		{
			name:     "missing parent",
			record:   without(blockRecord("divider", map[string]any{}), "parent"),
			wantKind: ErrMissingField,
			wantPath: "parent",
		},
		{
			name:     "missing expression",
			record:   blockRecord("equation", map[string]any{}),
			wantKind: ErrMissingField,
			wantPath: "equation.expression",
		},
		{
			name:     "missing checked",
			record:   blockRecord("to_do", map[string]any{"rich_text": runs("x")}),
			wantKind: ErrMissingField,
			wantPath: "to_do.checked",
		},
		{
			name: "unknown rich text kind",
			record: blockRecord("paragraph", map[string]any{
				"rich_text": []any{textRecord("ok"), map[string]any{"type": "sticker", "annotations": plainAnnotations()}},
			}),
			wantKind: ErrUnknownVariant,
			wantPath: "paragraph.rich_text[1].type",
		},
		{
			name: "unknown file kind",
			record: blockRecord("image", map[string]any{
				"type":         "custom_emoji",
				"custom_emoji": map[string]any{"id": "x"},
			}),
			wantKind: ErrUnknownVariant,
			wantPath: "image.type",
		},
		{
			name:     "wrong field type",
			record:   blockRecord("bookmark", map[string]any{"url": 42.0}),
			wantKind: ErrInvalidField,
			wantPath: "bookmark.url",
		},
		{
			name: "unknown color",
			record: blockRecord("quote", map[string]any{
				"rich_text": runs("Quote"), "color": "teal",
			}),
			wantKind: ErrUnknownVariant,
			wantPath: "quote.color",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeBlock(tt.record)
			if !errors.Is(err, tt.wantKind) {
				t.Fatalf("DecodeBlock error = %v, want %v", err, tt.wantKind)
			}
			var decodeErr *DecodeError
			if !errors.As(err, &decodeErr) {
				t.Fatalf("Expected *DecodeError, got %T", err)
			}
			if decodeErr.Path != tt.wantPath {
				t.Errorf("Path = %q, want %q", decodeErr.Path, tt.wantPath)
			}
		})
	}
}

func TestDecodeChildrenFailsAsAWhole(t *testing.T) {
	good := blockRecord("paragraph", map[string]any{"rich_text": runs("child")})
	bad := blockRecord("paragraph", map[string]any{})
	parent := blockRecord("toggle", map[string]any{
		"rich_text": runs("toggle"),
		"children":  []any{good, bad},
	})

	b, err := DecodeBlock(parent)
	if !errors.Is(err, ErrMissingField) {
		t.Fatalf("DecodeBlock error = %v, want missing field", err)
	}
	if b != nil {
		t.Errorf("Expected no partial tree, got %T", b)
	}
	var decodeErr *DecodeError
	if errors.As(err, &decodeErr) && decodeErr.Path != "toggle.children[1].paragraph.rich_text" {
		t.Errorf("Path = %q", decodeErr.Path)
	}
}

func TestDecodeNestedChildren(t *testing.T) {
	child := blockRecord("bulleted_list_item", map[string]any{"rich_text": runs("Child content")})
	parent := blockRecord("numbered_list_item", map[string]any{
		"rich_text": runs("Numbered list item"),
		"children":  []any{child},
	})

	b, err := DecodeBlock(parent)
	if err != nil {
		t.Fatalf("DecodeBlock failed: %v", err)
	}
	children := b.Base().Children
	if len(children) != 1 || children[0].Kind() != KindBulletedListItem {
		t.Fatalf("Unexpected children %#v", children)
	}
	if PlainText(children[0].(*BulletedListItem).Text) != "Child content" {
		t.Errorf("Child text = %q", PlainText(children[0].(*BulletedListItem).Text))
	}
}

func TestDecodeLegacyTextField(t *testing.T) {
	b, err := DecodeBlock(blockRecord("heading_2", map[string]any{"text": runs("Brave new world")}))
	if err != nil {
		t.Fatalf("DecodeBlock failed: %v", err)
	}
	if got := PlainText(b.(*Heading2).Text); got != "Brave new world" {
		t.Errorf("Text = %q, want Brave new world", got)
	}
}

func TestDecodeRichText(t *testing.T) {
	bold := plainAnnotations()
	bold["bold"] = true
	bold["color"] = "red_background"

	tests := []struct {
		name   string
		record map[string]any
		want   RichText
	}{
		{
			name: "linked text",
			record: map[string]any{
				"type":        "text",
				"text":        map[string]any{"content": "docs", "link": map[string]any{"url": "https://example.com"}},
				"annotations": bold,
				"plain_text":  "docs",
				"href":        "https://example.com",
			},
			want: &Text{
				RichTextBase: RichTextBase{
					PlainText:   "docs",
					Annotations: Annotations{Bold: true, Color: ColorRedBackground},
					Href:        "https://example.com",
				},
				Content: "docs",
				Link:    "https://example.com",
			},
		},
		{
			name: "plain text derived from content",
			record: map[string]any{
				"type":        "text",
				"text":        map[string]any{"content": "derived"},
				"annotations": plainAnnotations(),
			},
			want: &Text{
				RichTextBase: RichTextBase{PlainText: "derived", Annotations: Annotations{Color: ColorDefault}},
				Content:      "derived",
			},
		},
		{
			name: "inline equation",
			record: map[string]any{
				"type":        "equation",
				"equation":    map[string]any{"expression": "E = mc^2"},
				"annotations": plainAnnotations(),
				"plain_text":  "E = mc^2",
			},
			want: &InlineEquation{
				RichTextBase: RichTextBase{PlainText: "E = mc^2", Annotations: Annotations{Color: ColorDefault}},
				Expression:   "E = mc^2",
			},
		},
		{
			name: "page mention",
			record: map[string]any{
				"type": "mention",
				"mention": map[string]any{
					"type": "page",
					"page": map[string]any{"id": testPageID.String()},
				},
				"annotations": plainAnnotations(),
				"plain_text":  "Page with blocks",
				"href":        "https://www.notion.so/" + testPageID.String(),
			},
			want: &Mention{
				RichTextBase: RichTextBase{
					PlainText:   "Page with blocks",
					Annotations: Annotations{Color: ColorDefault},
					Href:        "https://www.notion.so/" + testPageID.String(),
				},
				Kind: MentionPage,
				ID:   testPageID,
			},
		},
		{
			name: "date mention",
			record: map[string]any{
				"type": "mention",
				"mention": map[string]any{
					"type": "date",
					"date": map[string]any{"start": "2023-04-01", "end": nil},
				},
				"annotations": plainAnnotations(),
				"plain_text":  "2023-04-01",
			},
			want: &Mention{
				RichTextBase: RichTextBase{PlainText: "2023-04-01", Annotations: Annotations{Color: ColorDefault}},
				Kind:         MentionDate,
				Date:         &DateValue{Start: time.Date(2023, 4, 1, 0, 0, 0, 0, time.UTC), DateOnly: true},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeRichText(tt.record)
			if err != nil {
				t.Fatalf("DecodeRichText failed: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("DecodeRichText mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDecodeAnnotationsRequireEveryFlag(t *testing.T) {
	for _, flag := range []string{"bold", "italic", "strikethrough", "underline", "code", "color"} {
		t.Run(flag, func(t *testing.T) {
			rec := textRecord("x")
			annotations := plainAnnotations()
			delete(annotations, flag)
			rec["annotations"] = annotations

			_, err := DecodeRichText(rec)
			var decodeErr *DecodeError
			if !errors.As(err, &decodeErr) || decodeErr.Kind != ErrMissingField {
				t.Fatalf("Expected missing field error, got %v", err)
			}
			if decodeErr.Path != "annotations."+flag {
				t.Errorf("Path = %q, want annotations.%s", decodeErr.Path, flag)
			}
		})
	}
}

func TestDecodeMentionRequiresPlainText(t *testing.T) {
	rec := map[string]any{
		"type":        "mention",
		"mention":     map[string]any{"type": "user", "user": map[string]any{"object": "user", "id": testUserID.String()}},
		"annotations": plainAnnotations(),
	}
	if _, err := DecodeRichText(rec); !errors.Is(err, ErrMissingField) {
		t.Errorf("Expected missing field error, got %v", err)
	}
}

func TestUnknownVariantStrictness(t *testing.T) {
	tests := []struct {
		name   string
		decode func() error
		value  string
	}{
		{
			name: "rich text",
			decode: func() error {
				_, err := DecodeRichText(map[string]any{"type": "sticker", "annotations": plainAnnotations()})
				return err
			},
			value: "sticker",
		},
		{
			name: "file",
			decode: func() error {
				_, err := DecodeFile(map[string]any{"type": "custom_emoji"})
				return err
			},
			value: "custom_emoji",
		},
		{
			name: "property value",
			decode: func() error {
				_, err := DecodePropertyValue(map[string]any{"id": "r", "type": "rollup", "rollup": map[string]any{}})
				return err
			},
			value: "rollup",
		},
		{
			name: "user",
			decode: func() error {
				_, err := DecodeUser(map[string]any{"id": testUserID.String(), "type": "group"})
				return err
			},
			value: "group",
		},
		{
			name: "parent",
			decode: func() error {
				_, err := DecodeParent(map[string]any{"type": "space_id", "space_id": "x"})
				return err
			},
			value: "space_id",
		},
		{
			name: "mention",
			decode: func() error {
				_, err := DecodeRichText(map[string]any{
					"type":        "mention",
					"mention":     map[string]any{"type": "template_mention"},
					"annotations": plainAnnotations(),
					"plain_text":  "@today",
				})
				return err
			},
			value: "template_mention",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.decode()
			var decodeErr *DecodeError
			if !errors.As(err, &decodeErr) || !errors.Is(err, ErrUnknownVariant) {
				t.Fatalf("Expected unknown variant error, got %v", err)
			}
			if decodeErr.Value != tt.value {
				t.Errorf("Value = %q, want %q", decodeErr.Value, tt.value)
			}
		})
	}
}

func TestDecodeFile(t *testing.T) {
	rec := map[string]any{
		"type": "file",
		"file": map[string]any{
			"url":         "https://files.example.com/video.mp4?signature=abc",
			"expiry_time": "2023-03-27T17:20:00.000Z",
		},
		"caption": []any{},
	}

	file, err := DecodeFile(rec)
	if err != nil {
		t.Fatalf("DecodeFile failed: %v", err)
	}
	hosted, ok := file.(*HostedFile)
	if !ok {
		t.Fatalf("Expected *HostedFile, got %T", file)
	}
	if FileURL(hosted) != "https://files.example.com/video.mp4?signature=abc" {
		t.Errorf("URL = %q", hosted.URL)
	}

	expiry := time.Date(2023, 3, 27, 17, 20, 0, 0, time.UTC)
	if hosted.Expired(expiry.Add(-time.Minute)) {
		t.Error("File should be valid before its expiry time")
	}
	if !hosted.Expired(expiry) {
		t.Error("File should be expired at its expiry time")
	}

	if _, err := DecodeFile(map[string]any{"type": "file", "file": map[string]any{"url": "x"}}); !errors.Is(err, ErrMissingField) {
		t.Errorf("Expected missing expiry_time error, got %v", err)
	}
}

func TestEarliestExpiry(t *testing.T) {
	early := time.Date(2023, 3, 27, 17, 0, 0, 0, time.UTC)
	late := early.Add(time.Hour)

	cover := &HostedFile{URL: "https://files.example.com/cover.png", ExpiryTime: late}
	image := &Image{File: &HostedFile{URL: "https://files.example.com/a.png", ExpiryTime: early}}
	callout := &Callout{Icon: &EmojiFile{Emoji: "💡"}}
	page := &Page{
		Icon:  &ExternalFile{URL: "https://example.com/icon.png"},
		Cover: cover,
		Properties: map[string]PropertyValue{
			"Attachments": &FilesProperty{Files: []File{&HostedFile{URL: "https://files.example.com/b.pdf", ExpiryTime: late}}},
		},
	}

	if got := len(page.Files()); got != 3 {
		t.Errorf("Page.Files() returned %d files, want 3", got)
	}
	if got := BlockFiles(callout); len(got) != 1 {
		t.Errorf("BlockFiles(callout) = %v, want the icon", got)
	}
	if got := BlockFiles(&Divider{}); got != nil {
		t.Errorf("BlockFiles(divider) = %v, want nil", got)
	}

	tests := []struct {
		name   string
		files  []File
		want   time.Time
		wantOK bool
	}{
		{"no files", nil, time.Time{}, false},
		{"external and emoji only", append(BlockFiles(callout), page.Icon), time.Time{}, false},
		{"page only", page.Files(), late, true},
		{"page and blocks", append(page.Files(), BlockFiles(image)...), early, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := EarliestExpiry(tt.files)
			if ok != tt.wantOK || !got.Equal(tt.want) {
				t.Errorf("EarliestExpiry() = %v, %v, want %v, %v", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestDecodeUser(t *testing.T) {
	tests := []struct {
		name   string
		record map[string]any
		want   User
	}{
		{
			name:   "partial",
			record: map[string]any{"object": "user", "id": testUserID.String()},
			want:   PartialUser{ID: testUserID},
		},
		{
			name: "person",
			record: map[string]any{
				"object": "user", "id": testUserID.String(), "type": "person",
				"name": "Ada", "avatar_url": nil,
				"person": map[string]any{"email": "ada@example.com"},
			},
			want: &Person{ID: testUserID, Name: "Ada", Email: "ada@example.com"},
		},
		{
			name: "bot",
			record: map[string]any{
				"object": "user", "id": testUserID.String(), "type": "bot",
				"name": "Exporter",
				"bot":  map[string]any{"owner": map[string]any{"type": "workspace", "workspace": true}},
			},
			want: &Bot{ID: testUserID, Name: "Exporter", OwnerType: "workspace"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeUser(tt.record)
			if err != nil {
				t.Fatalf("DecodeUser failed: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("DecodeUser mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestUnmarshalPage(t *testing.T) {
	data, err := os.ReadFile("testdata/page.json")
	if err != nil {
		t.Fatalf("Failed to read page fixture: %v", err)
	}

	page, err := UnmarshalPage(data)
	if err != nil {
		t.Fatalf("UnmarshalPage failed: %v", err)
	}

	if page.ID != testPageID {
		t.Errorf("ID = %v, want %v", page.ID, testPageID)
	}
	if page.Title() != "Page with blocks" {
		t.Errorf("Title() = %q", page.Title())
	}
	if icon, ok := page.Icon.(*EmojiFile); !ok || icon.Emoji != "😀" {
		t.Errorf("Icon = %#v, want emoji", page.Icon)
	}
	if FileURL(page.Cover) != "https://www.notion.so/images/page-cover/gradients_8.png" {
		t.Errorf("Cover = %#v", page.Cover)
	}
	if _, ok := page.Parent.(DatabaseParent); !ok {
		t.Errorf("Parent = %#v, want database", page.Parent)
	}

	wantNames := []string{"Computed", "Done", "Due", "Link", "Name", "Owner", "Score", "Stage", "Tags"}
	if diff := cmp.Diff(wantNames, page.PropertyNames()); diff != "" {
		t.Errorf("PropertyNames mismatch (-want +got):\n%s", diff)
	}

	tags := page.Properties["Tags"].(*MultiSelectProperty)
	if len(tags.Options) != 2 || tags.Options[0].Name != "notes" || tags.Options[1].Color != ColorGreen {
		t.Errorf("Unexpected tags %#v", tags.Options)
	}
	if score := page.Properties["Score"].(*NumberProperty); score.Value == nil || *score.Value != 4.5 {
		t.Errorf("Unexpected score %#v", score.Value)
	}
	if due := page.Properties["Due"].(*DateProperty); due.Value == nil || !due.Value.DateOnly || !due.Value.End.IsZero() {
		t.Errorf("Unexpected due date %#v", due.Value)
	}
	if !page.Properties["Done"].(*CheckboxProperty).Checked {
		t.Error("Expected Done to be checked")
	}
	if link := page.Properties["Link"].(*URLProperty); link.URL != "" {
		t.Errorf("Expected empty URL, got %q", link.URL)
	}
	if owner := page.Properties["Owner"].(*PeopleProperty); len(owner.People) != 1 || owner.People[0].(*Person).Email != "ada@example.com" {
		t.Errorf("Unexpected owner %#v", owner.People)
	}
	if stage := page.Properties["Stage"].(*StatusProperty); stage.Option == nil || stage.Option.Name != "In progress" {
		t.Errorf("Unexpected stage %#v", stage.Option)
	}
	if fx := page.Properties["Computed"].(*FormulaProperty); fx.Result.Number == nil || *fx.Result.Number != 42 {
		t.Errorf("Unexpected formula %#v", fx.Result)
	}
}

func TestDecodePageReportsFirstInvalidProperty(t *testing.T) {
	rec := Record{
		"object":           "page",
		"id":               testPageID.String(),
		"created_time":     "2023-03-26T19:10:00.000Z",
		"last_edited_time": "2023-03-27T16:38:00.000Z",
		"parent":           map[string]any{"type": "workspace", "workspace": true},
		"properties": map[string]any{
			"Zeta":  map[string]any{"id": "z", "type": "button", "button": map[string]any{}},
			"Alpha": map[string]any{"id": "a", "type": "button", "button": map[string]any{}},
			"Mid":   map[string]any{"id": "m", "type": "button", "button": map[string]any{}},
		},
	}

	for i := 0; i < 20; i++ {
		_, err := DecodePage(rec)
		var decodeErr *DecodeError
		if !errors.As(err, &decodeErr) {
			t.Fatalf("Expected *DecodeError, got %v", err)
		}
		if decodeErr.Path != "properties.Alpha.type" {
			t.Fatalf("Path = %q, want properties.Alpha.type", decodeErr.Path)
		}
	}
}

func TestUnmarshalList(t *testing.T) {
	data, err := os.ReadFile("testdata/children.json")
	if err != nil {
		t.Fatalf("Failed to read children fixture: %v", err)
	}

	list, err := UnmarshalList(data)
	if err != nil {
		t.Fatalf("UnmarshalList failed: %v", err)
	}
	if !list.HasMore || list.NextCursor != "a0000000-0000-4000-8000-000000000004" {
		t.Errorf("Unexpected cursor state: has_more=%v next_cursor=%q", list.HasMore, list.NextCursor)
	}

	items := make([]any, 0, len(list.Results))
	for _, rec := range list.Results {
		items = append(items, rec)
	}
	blocks, err := DecodeBlocks(items)
	if err != nil {
		t.Fatalf("DecodeBlocks failed: %v", err)
	}

	var kinds []BlockKind
	for _, b := range blocks {
		kinds = append(kinds, b.Kind())
	}
	want := []BlockKind{KindHeading1, KindEquation, KindUnsupported}
	if diff := cmp.Diff(want, kinds); diff != "" {
		t.Errorf("Kinds mismatch (-want +got):\n%s", diff)
	}
}

func TestBlockKindsCoversDecoderTable(t *testing.T) {
	kinds := BlockKinds()
	if len(kinds) != len(blockDecoders)+1 {
		t.Fatalf("BlockKinds() returned %d kinds, want %d", len(kinds), len(blockDecoders)+1)
	}
	for i := 1; i < len(kinds); i++ {
		if kinds[i-1] >= kinds[i] {
			t.Errorf("BlockKinds() not sorted at %d: %q >= %q", i, kinds[i-1], kinds[i])
		}
	}
}
