package models

// Patch is a partial update of an Identity. Nil fields are left untouched.
// ID and CreatedAt are immutable and therefore not part of a patch.
type Patch struct {
	Name       *string
	Email      *string
	Roles      []string
	AuraPoints *int64
	TrustScore *float64
	IsVerified *bool

	// Avatar replaces the avatar reference when set; ClearAvatar removes it.
	Avatar      *string
	ClearAvatar bool
}

// Empty reports whether applying p would change nothing.
func (p Patch) Empty() bool {
	return p.Name == nil && p.Email == nil && p.Roles == nil &&
		p.AuraPoints == nil && p.TrustScore == nil && p.IsVerified == nil &&
		p.Avatar == nil && !p.ClearAvatar
}

// Apply returns a copy of id with the fields of p merged in (shallow merge).
// The result is not validated; callers check it with Validate.
func (p Patch) Apply(id Identity) Identity {
	out := id.Clone()
	if p.Name != nil {
		out.Name = *p.Name
	}
	if p.Email != nil {
		out.Email = *p.Email
	}
	if p.Roles != nil {
		out.Roles = append([]string(nil), p.Roles...)
	}
	if p.AuraPoints != nil {
		out.AuraPoints = *p.AuraPoints
	}
	if p.TrustScore != nil {
		out.TrustScore = *p.TrustScore
	}
	if p.IsVerified != nil {
		out.IsVerified = *p.IsVerified
	}
	switch {
	case p.ClearAvatar:
		out.Avatar = nil
	case p.Avatar != nil:
		a := *p.Avatar
		out.Avatar = &a
	}
	return out
}

// Ptr returns a pointer to v. It keeps patch literals short:
//
//	models.Patch{TrustScore: models.Ptr(4.2)}
func Ptr[T any](v T) *T {
	return &v
}
