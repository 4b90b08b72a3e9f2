package model

// TargetKind names the entity kind a polymorphic reference points at.
// The set is closed: references are a (kind, id) pair with no foreign key
// behind them, so every kind must be resolvable by application code.
type TargetKind string

const (
	TargetBrand      TargetKind = "brand"
	TargetExperience TargetKind = "experience"
	TargetCategory   TargetKind = "category"
)

// TargetRef is one polymorphic reference.
type TargetRef struct {
	Kind TargetKind
	ID   uint
}

func (k TargetKind) Valid() bool {
	switch k {
	case TargetBrand, TargetExperience, TargetCategory:
		return true
	}
	return false
}

// Reviewable reports whether reviews may point at this kind.
func (k TargetKind) Reviewable() bool {
	return k == TargetBrand || k == TargetExperience
}

// Favoritable reports whether favorites may point at this kind.
func (k TargetKind) Favoritable() bool {
	return k == TargetBrand || k == TargetExperience
}

// Taggable reports whether taggings may point at this kind.
func (k TargetKind) Taggable() bool {
	return k == TargetBrand || k == TargetExperience || k == TargetCategory
}

// Notifiable reports whether notifications may point at this kind.
func (k TargetKind) Notifiable() bool {
	return k.Valid()
}
