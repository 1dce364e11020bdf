package model

// Identity is a verified viewer. Anonymous viewers are represented by a nil
// *Identity, never by a zero value.
type Identity struct {
	UID    string
	Email  string
	Claims map[string]interface{}
}

// UIDOf returns the viewer id, or "" for an anonymous viewer.
func UIDOf(id *Identity) string {
	if id == nil {
		return ""
	}
	return id.UID
}

// BoolClaim reads a boolean custom claim.
func (i *Identity) BoolClaim(name string) bool {
	if i == nil || i.Claims == nil || name == "" {
		return false
	}
	v, ok := i.Claims[name].(bool)
	return ok && v
}
