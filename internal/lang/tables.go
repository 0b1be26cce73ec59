package lang

// WidgetParamRole is a structural mapping: a widget (constructor/call name)
// plus a named parameter resolves directly to a role.
type WidgetParamRole struct {
	Widget string
	Param  string // empty matches any parameter of the widget
	Role   Role
}

// WidgetRoleTable maps Flutter widget names (and optional parameter names)
// to roles. First match wins; entries with a Param are listed before the
// widget's catch-all entry.
var WidgetRoleTable = []WidgetParamRole{
	// App bars and dialogs
	{Widget: "AppBar", Param: "title", Role: RoleTitle},
	{Widget: "SliverAppBar", Param: "title", Role: RoleTitle},
	{Widget: "AlertDialog", Param: "title", Role: RoleTitle},
	{Widget: "AlertDialog", Param: "content", Role: RoleMessage},
	{Widget: "CupertinoAlertDialog", Param: "title", Role: RoleTitle},
	{Widget: "CupertinoAlertDialog", Param: "content", Role: RoleMessage},
	{Widget: "SimpleDialog", Param: "title", Role: RoleTitle},
	{Widget: "Dialog", Role: RoleMessage},

	// Buttons
	{Widget: "TextButton", Role: RoleButton},
	{Widget: "ElevatedButton", Role: RoleButton},
	{Widget: "OutlinedButton", Role: RoleButton},
	{Widget: "FilledButton", Role: RoleButton},
	{Widget: "IconButton", Param: "tooltip", Role: RoleHint},
	{Widget: "IconButton", Role: RoleButton},
	{Widget: "FloatingActionButton", Param: "tooltip", Role: RoleHint},
	{Widget: "FloatingActionButton", Role: RoleButton},
	{Widget: "CupertinoButton", Role: RoleButton},
	{Widget: "DropdownMenuItem", Role: RoleLabel},
	{Widget: "MenuItemButton", Role: RoleButton},
	{Widget: "PopupMenuItem", Role: RoleButton},

	// Input fields
	{Widget: "TextField", Param: "hintText", Role: RoleHint},
	{Widget: "TextFormField", Param: "hintText", Role: RoleHint},
	{Widget: "InputDecoration", Param: "hintText", Role: RoleHint},
	{Widget: "InputDecoration", Param: "labelText", Role: RoleLabel},
	{Widget: "InputDecoration", Param: "helperText", Role: RoleDescription},
	{Widget: "InputDecoration", Param: "errorText", Role: RoleError},
	{Widget: "InputDecoration", Param: "counterText", Role: RoleLabel},
	{Widget: "CupertinoTextField", Param: "placeholder", Role: RolePlaceholder},
	{Widget: "CupertinoSearchTextField", Param: "placeholder", Role: RolePlaceholder},

	// Messaging
	{Widget: "SnackBar", Param: "content", Role: RoleMessage},
	{Widget: "SnackBarAction", Param: "label", Role: RoleButton},
	{Widget: "Tooltip", Param: "message", Role: RoleHint},
	{Widget: "Banner", Param: "message", Role: RoleMessage},
	{Widget: "MaterialBanner", Param: "content", Role: RoleMessage},

	// Navigation
	{Widget: "Tab", Role: RoleNavigation},
	{Widget: "BottomNavigationBarItem", Param: "label", Role: RoleNavigation},
	{Widget: "NavigationDestination", Param: "label", Role: RoleNavigation},
	{Widget: "NavigationRailDestination", Param: "label", Role: RoleNavigation},
	{Widget: "Drawer", Role: RoleNavigation},

	// Lists and chips
	{Widget: "ListTile", Param: "title", Role: RoleLabel},
	{Widget: "ListTile", Param: "subtitle", Role: RoleDescription},
	{Widget: "Chip", Param: "label", Role: RoleLabel},
	{Widget: "CheckboxListTile", Param: "title", Role: RoleLabel},
	{Widget: "SwitchListTile", Param: "title", Role: RoleLabel},
}

// ParamRoleTable maps a named-argument label alone to a role, used when the
// enclosing widget is unknown or unmapped.
var ParamRoleTable = map[string]Role{
	"title":         RoleTitle,
	"hintText":      RoleHint,
	"hint":          RoleHint,
	"labelText":     RoleLabel,
	"label":         RoleLabel,
	"helperText":    RoleDescription,
	"errorText":     RoleError,
	"placeholder":   RolePlaceholder,
	"message":       RoleMessage,
	"semanticLabel": RoleLabel,
	"tooltip":       RoleHint,
	"subtitle":      RoleDescription,
	"description":   RoleDescription,
	"confirmText":   RoleButton,
	"cancelText":    RoleButton,
}

// LookupWidgetRoleIn resolves a (widget, param) pair against the given
// entries in order, first match wins. Entries with a Param must precede
// the widget's catch-all entry.
func LookupWidgetRoleIn(table []WidgetParamRole, widget, param string) (Role, bool) {
	for _, e := range table {
		if e.Widget != widget {
			continue
		}
		if e.Param == "" || e.Param == param {
			return e.Role, true
		}
	}
	return RoleUnknown, false
}

// LookupWidgetRole resolves a (widget, param) pair against the built-in
// table. Configuration-supplied mappings are per-project state and live
// on the classifier, never here.
func LookupWidgetRole(widget, param string) (Role, bool) {
	return LookupWidgetRoleIn(WidgetRoleTable, widget, param)
}

// DebugCallNames are call names whose string arguments are log/debug output,
// never user-facing copy.
var DebugCallNames = map[string]bool{
	"print":      true,
	"debugPrint": true,
	"log":        true,
	"logger":     true,
	"assert":     true,
	"Exception":  true,
	"StateError": true,
}

// AssetPathPrefixes are leading path segments that mark asset references.
var AssetPathPrefixes = []string{
	"assets/", "images/", "fonts/", "lib/", "packages/",
}

// MediaFileExtensions mark file references rather than display text.
var MediaFileExtensions = []string{
	".png", ".jpg", ".jpeg", ".gif", ".webp", ".svg", ".ico",
	".ttf", ".otf", ".json", ".dart", ".mp3", ".mp4", ".wav",
}

// DateFormatTokens is the fixed alphabet of date/time format pattern tokens
// (as used by intl.DateFormat). A value built only from these tokens and
// separators is a format template, not translatable text.
var DateFormatTokens = []string{
	"yyyy", "yy", "MMMM", "MMM", "MM", "dd", "EEEE", "EEE",
	"HH", "hh", "mm", "ss", "a",
}

// ActionVerbs begin button copy ("Save", "Retry", "Sign In").
var ActionVerbs = map[string]bool{
	"save": true, "cancel": true, "delete": true, "ok": true, "retry": true,
	"submit": true, "confirm": true, "close": true, "done": true, "next": true,
	"back": true, "continue": true, "skip": true, "add": true, "remove": true,
	"edit": true, "apply": true, "send": true, "share": true, "undo": true,
	"login": true, "logout": true, "register": true, "sign": true, "yes": true,
	"no": true, "accept": true, "decline": true, "upload": true, "download": true,
}

// ErrorVocabulary marks failure/validation copy.
var ErrorVocabulary = []string{
	"error", "failed", "failure", "invalid", "unable", "cannot", "could not",
	"wrong", "missing", "required", "not found", "denied", "expired",
	"try again", "something went wrong",
}

// HintVocabulary marks imperative input guidance.
var HintVocabulary = []string{
	"enter ", "type ", "select ", "choose ", "pick ", "search",
	"tap to", "swipe", "e.g.",
}

// ConfirmationVocabulary marks confirmation prompts.
var ConfirmationVocabulary = []string{
	"are you sure", "do you want", "would you like", "this cannot be undone",
	"confirm", "permanently",
}

// ScreenSuffixes are UI-container suffixes stripped when deriving a screen
// group from a file or class name.
var ScreenSuffixes = []string{
	"Screen", "Page", "View", "Dialog", "Widget", "Tab", "Sheet",
	"Form", "Card", "Tile", "Panel",
}
