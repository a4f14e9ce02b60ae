package shellapi

// labels holds the user-visible texts sent to shell extensions.
type labels struct {
	strings [][2]string // GET_STRINGS pairs in reply order

	shareWith        string
	streamSubmenu    string
	streamOffline    string
	streamOnline     string
	offline          string
	online           string
	share            string
	edit             string
	openInBrowser    string
	reshareForbidden string
	copyPublicLink   string
	copyPrivateLink  string
	emailSubject     string
	shareError       string
	publicLinkError  string
	privateLinkError string
	editError        string
}

func newLabels(appName string) labels {
	return labels{
		strings: [][2]string{
			{"SHARE_MENU_TITLE", "Share options"},
			{"CONTEXT_MENU_TITLE", "Share via " + appName},
			{"COPY_PRIVATE_LINK_MENU_TITLE", "Copy private link to clipboard"},
			{"EMAIL_PRIVATE_LINK_MENU_TITLE", "Send private link by email..."},
		},
		shareWith:        "Share with " + appName,
		streamSubmenu:    "Virtual Drive",
		streamOffline:    "Available offline",
		streamOnline:     "Online only",
		offline:          "Offline",
		online:           "Online",
		share:            "Share...",
		edit:             "Edit",
		openInBrowser:    "Open in browser",
		reshareForbidden: "Resharing this file is not allowed",
		copyPublicLink:   "Copy public link",
		copyPrivateLink:  "Copy internal link",
		emailSubject:     "I shared something with you",
		shareError:       "Sharing error",
		publicLinkError:  "Could not retrieve or create the public link share",
		privateLinkError: "Could not retrieve the private link",
		editError:        "Could not open the file for editing",
	}
}
