package notion

import "github.com/google/uuid"

// UserType is the wire discriminator of a user. Partial user references
// carry no discriminator.
type UserType string

const (
	UserPartial UserType = ""
	UserPerson  UserType = "person"
	UserBot     UserType = "bot"
)

// User is a person, a bot, or a partial reference holding only the ID.
type User interface {
	UserID() uuid.UUID
	Type() UserType
}

// PartialUser is how blocks reference their author and last editor.
type PartialUser struct {
	ID uuid.UUID
}

func (u PartialUser) UserID() uuid.UUID { return u.ID }
func (PartialUser) Type() UserType      { return UserPartial }

type Person struct {
	ID        uuid.UUID
	Name      string
	AvatarURL string
	Email     string
}

func (u *Person) UserID() uuid.UUID { return u.ID }
func (*Person) Type() UserType      { return UserPerson }

type Bot struct {
	ID        uuid.UUID
	Name      string
	AvatarURL string
	OwnerType string // "workspace" or "user"
}

func (u *Bot) UserID() uuid.UUID { return u.ID }
func (*Bot) Type() UserType      { return UserBot }

// DecodeUser decodes a user record.
func DecodeUser(rec Record) (User, error) {
	return decodeUser(newFields(rec, ""))
}

func decodeUser(f fields) (User, error) {
	id, err := f.id("id")
	if err != nil {
		return nil, err
	}
	kind, err := f.optStr("type")
	if err != nil {
		return nil, err
	}

	switch UserType(kind) {
	case UserPartial:
		return PartialUser{ID: id}, nil
	case UserPerson:
		p := &Person{ID: id}
		if p.Name, err = f.optStr("name"); err != nil {
			return nil, err
		}
		if p.AvatarURL, err = f.optStr("avatar_url"); err != nil {
			return nil, err
		}
		if f.has("person") {
			person, err := f.obj("person")
			if err != nil {
				return nil, err
			}
			if p.Email, err = person.optStr("email"); err != nil {
				return nil, err
			}
		}
		return p, nil
	case UserBot:
		b := &Bot{ID: id}
		if b.Name, err = f.optStr("name"); err != nil {
			return nil, err
		}
		if b.AvatarURL, err = f.optStr("avatar_url"); err != nil {
			return nil, err
		}
		if f.has("bot") {
			bot, err := f.obj("bot")
			if err != nil {
				return nil, err
			}
			if bot.has("owner") {
				owner, err := bot.obj("owner")
				if err != nil {
					return nil, err
				}
				if b.OwnerType, err = owner.optStr("type"); err != nil {
					return nil, err
				}
			}
		}
		return b, nil
	default:
		return nil, unknownVariant(f.at("type"), kind)
	}
}

func decodeOptUser(f fields, name string) (User, error) {
	if !f.has(name) {
		return nil, nil
	}
	obj, err := f.obj(name)
	if err != nil {
		return nil, err
	}
	return decodeUser(obj)
}
