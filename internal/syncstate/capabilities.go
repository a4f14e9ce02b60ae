package syncstate

// Capabilities are the sharing features the server of a folder exposes.
type Capabilities struct {
	ShareAPI         bool
	PublicLink       bool
	EnforceExpiry    bool
	EnforcePassword  bool
	UserGroupSharing bool
}

// SharingEnabled reports whether any share mechanism is usable.
func (c Capabilities) SharingEnabled() bool {
	return c.ShareAPI && (c.UserGroupSharing || c.PublicLink)
}

// CanCreateDefaultPublicLink reports whether a public link can be created
// without asking the user for a password or expiry date.
func (c Capabilities) CanCreateDefaultPublicLink() bool {
	return c.PublicLink && !c.EnforceExpiry && !c.EnforcePassword
}

// Editor is a server-side direct editing application.
type Editor struct {
	ID                string
	Name              string
	MimeTypes         []string
	OptionalMimeTypes []string
}

// Handles reports whether the editor accepts mimeType, first through its
// primary types and then through its optional ones.
func (e Editor) Handles(mimeType string) bool {
	for _, candidate := range e.MimeTypes {
		if candidate == mimeType {
			return true
		}
	}
	for _, candidate := range e.OptionalMimeTypes {
		if candidate == mimeType {
			return true
		}
	}
	return false
}
