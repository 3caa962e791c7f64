package notion

import "time"

// FileType is the wire discriminator of a file reference.
type FileType string

const (
	FileExternal FileType = "external"
	FileHosted   FileType = "file"
	FileEmoji    FileType = "emoji"
)

// File references media, an icon or a cover. Implementations:
// *ExternalFile, *HostedFile and *EmojiFile.
type File interface {
	Type() FileType
}

// FileMeta is shared by the two URL-backed file kinds.
type FileMeta struct {
	Name    string
	Caption []RichText
}

// ExternalFile is a permanent URL outside the service.
type ExternalFile struct {
	FileMeta
	URL string
}

func (*ExternalFile) Type() FileType { return FileExternal }

// HostedFile is uploaded to the service. Its URL is signed and must not be
// used after ExpiryTime.
type HostedFile struct {
	FileMeta
	URL        string
	ExpiryTime time.Time
}

func (*HostedFile) Type() FileType { return FileHosted }

// Expired reports whether the signed URL is no longer valid at now.
func (f *HostedFile) Expired(now time.Time) bool {
	return !now.Before(f.ExpiryTime)
}

// EarliestExpiry returns the first instant at which one of the hosted files
// stops being valid. ok is false when none of files is hosted.
func EarliestExpiry(files []File) (earliest time.Time, ok bool) {
	for _, f := range files {
		hosted, isHosted := f.(*HostedFile)
		if !isHosted {
			continue
		}
		if !ok || hosted.ExpiryTime.Before(earliest) {
			earliest = hosted.ExpiryTime
			ok = true
		}
	}
	return earliest, ok
}

// EmojiFile is an icon made of a single emoji.
type EmojiFile struct {
	Emoji string
}

func (*EmojiFile) Type() FileType { return FileEmoji }

// FileURL returns the URL of an external or hosted file, and "" otherwise.
func FileURL(f File) string {
	switch f := f.(type) {
	case *ExternalFile:
		return f.URL
	case *HostedFile:
		return f.URL
	default:
		return ""
	}
}

// FileMetaOf returns name and caption of an external or hosted file.
func FileMetaOf(f File) FileMeta {
	switch f := f.(type) {
	case *ExternalFile:
		return f.FileMeta
	case *HostedFile:
		return f.FileMeta
	default:
		return FileMeta{}
	}
}

type fileDecoder func(f fields, meta FileMeta) (File, error)

var fileDecoders = map[FileType]fileDecoder{
	FileExternal: decodeExternalFile,
	FileHosted:   decodeHostedFile,
	FileEmoji:    decodeEmojiFile,
}

// DecodeFile decodes a file, icon or cover record.
func DecodeFile(rec Record) (File, error) {
	return decodeFile(newFields(rec, ""))
}

func decodeFile(f fields) (File, error) {
	kind, err := f.str("type")
	if err != nil {
		return nil, err
	}
	decode, ok := fileDecoders[FileType(kind)]
	if !ok {
		return nil, unknownVariant(f.at("type"), kind)
	}

	var meta FileMeta
	if meta.Name, err = f.optStr("name"); err != nil {
		return nil, err
	}
	if f.has("caption") {
		if meta.Caption, err = decodeRichTextArray(f, "caption"); err != nil {
			return nil, err
		}
	}
	return decode(f, meta)
}

// decodeOptFile decodes a nullable file field such as a page icon.
func decodeOptFile(f fields, name string) (File, error) {
	if !f.has(name) {
		return nil, nil
	}
	obj, err := f.obj(name)
	if err != nil {
		return nil, err
	}
	return decodeFile(obj)
}

func decodeExternalFile(f fields, meta FileMeta) (File, error) {
	payload, err := f.obj("external")
	if err != nil {
		return nil, err
	}
	url, err := payload.str("url")
	if err != nil {
		return nil, err
	}
	return &ExternalFile{FileMeta: meta, URL: url}, nil
}

func decodeHostedFile(f fields, meta FileMeta) (File, error) {
	payload, err := f.obj("file")
	if err != nil {
		return nil, err
	}
	hosted := &HostedFile{FileMeta: meta}
	if hosted.URL, err = payload.str("url"); err != nil {
		return nil, err
	}
	if hosted.ExpiryTime, err = payload.time("expiry_time"); err != nil {
		return nil, err
	}
	return hosted, nil
}

func decodeEmojiFile(f fields, _ FileMeta) (File, error) {
	emoji, err := f.str("emoji")
	if err != nil {
		return nil, err
	}
	return &EmojiFile{Emoji: emoji}, nil
}
