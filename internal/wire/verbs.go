package wire

// Verb names a protocol command or message kind.
type Verb string

// Inbound commands.
const (
	VerbVersion              Verb = "VERSION"
	VerbRetrieveFileStatus   Verb = "RETRIEVE_FILE_STATUS"
	VerbRetrieveFolderStatus Verb = "RETRIEVE_FOLDER_STATUS"
	VerbShare                Verb = "SHARE"
	VerbManagePublicLinks    Verb = "MANAGE_PUBLIC_LINKS"
	VerbShareStatus          Verb = "SHARE_STATUS"
	VerbShareMenuTitle       Verb = "SHARE_MENU_TITLE"
	VerbCopyPublicLink       Verb = "COPY_PUBLIC_LINK"
	VerbCopyPrivateLink      Verb = "COPY_PRIVATE_LINK"
	VerbEmailPrivateLink     Verb = "EMAIL_PRIVATE_LINK"
	VerbOpenPrivateLink      Verb = "OPEN_PRIVATE_LINK"
	VerbEdit                 Verb = "EDIT"
	VerbGetStrings           Verb = "GET_STRINGS"
	VerbGetMenuItems         Verb = "GET_MENU_ITEMS"
	VerbOnlineDownloadMode   Verb = "ONLINE_DOWNLOAD_MODE"
	VerbOfflineDownloadMode  Verb = "OFFLINE_DOWNLOAD_MODE"
	VerbSetDownloadMode      Verb = "SET_DOWNLOAD_MODE"
	VerbGetDownloadMode      Verb = "GET_DOWNLOAD_MODE"
	VerbCopyAsPath           Verb = "COPYASPATH"
	VerbOpen                 Verb = "OPEN"
	VerbOpenNewWindow        Verb = "OPENNEWWINDOW"
)

// Outbound messages.
const (
	VerbStatus                Verb = "STATUS"
	VerbRegisterPath          Verb = "REGISTER_PATH"
	VerbUnregisterPath        Verb = "UNREGISTER_PATH"
	VerbRegisterDriveFS       Verb = "REGISTER_DRIVEFS"
	VerbUpdateView            Verb = "UPDATE_VIEW"
	VerbString                Verb = "STRING"
	VerbMenuItem              Verb = "MENU_ITEM"
	VerbStreamSubmenuTitle    Verb = "STREAM_SUBMENU_TITLE"
	VerbStreamOfflineTitle    Verb = "STREAM_OFFLINE_ITEM_TITLE"
	VerbStreamOnlineItemTitle Verb = "STREAM_ONLINE_ITEM_TITLE"
)

// Reply codes carried in the STATUS position.
const (
	CodeNOP             = "NOP"
	CodeOK              = "OK"
	CodeNotConnected    = "NOTCONNECTED"
	CodeNotSynced       = "NOTSYNCED"
	CodeCannotShareRoot = "CANNOTSHAREROOT"
	CodeDisabled        = "DISABLED"
	CodeBegin           = "BEGIN"
	CodeEnd             = "END"
)

// Share mechanisms reported by SHARE_STATUS.
const (
	ShareUserGroup = "USER,GROUP"
	ShareLink      = "LINK"
)

// Menu item flags. An enabled entry renders as MENU_ITEM:<id>::<label>, a
// disabled one as MENU_ITEM:<id>:d:<label>.
const (
	FlagEnabled  = "::"
	FlagDisabled = ":d:"
)

// RecordSeparator joins the paths of a multi-file selection.
const RecordSeparator = '\x1e'

// ProtocolVersion is reported by VERSION. The major number changes on
// incompatible changes, the minor number when features are added.
const ProtocolVersion = "1.1"
