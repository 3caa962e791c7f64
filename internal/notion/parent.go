package notion

import "github.com/google/uuid"

// ParentType is the wire discriminator of a parent reference.
type ParentType string

const (
	ParentWorkspace ParentType = "workspace"
	ParentPage      ParentType = "page_id"
	ParentBlock     ParentType = "block_id"
	ParentDatabase  ParentType = "database_id"
)

// Parent points at exactly one owner of a page, block or database.
type Parent interface {
	Type() ParentType
}

type WorkspaceParent struct{}

func (WorkspaceParent) Type() ParentType { return ParentWorkspace }

type PageParent struct{ ID uuid.UUID }

func (PageParent) Type() ParentType { return ParentPage }

type BlockParent struct{ ID uuid.UUID }

func (BlockParent) Type() ParentType { return ParentBlock }

type DatabaseParent struct{ ID uuid.UUID }

func (DatabaseParent) Type() ParentType { return ParentDatabase }

// ParentID returns the referenced identifier, or uuid.Nil for the workspace.
func ParentID(p Parent) uuid.UUID {
	switch p := p.(type) {
	case PageParent:
		return p.ID
	case BlockParent:
		return p.ID
	case DatabaseParent:
		return p.ID
	default:
		return uuid.Nil
	}
}

// DecodeParent decodes a parent reference record.
func DecodeParent(rec Record) (Parent, error) {
	return decodeParent(newFields(rec, ""))
}

func decodeParent(f fields) (Parent, error) {
	kind, err := f.str("type")
	if err != nil {
		return nil, err
	}
	switch ParentType(kind) {
	case ParentWorkspace:
		return WorkspaceParent{}, nil
	case ParentPage:
		id, err := f.id(kind)
		return PageParent{ID: id}, err
	case ParentBlock:
		id, err := f.id(kind)
		return BlockParent{ID: id}, err
	case ParentDatabase:
		id, err := f.id(kind)
		return DatabaseParent{ID: id}, err
	default:
		return nil, unknownVariant(f.at("type"), kind)
	}
}
