package constants

const (
	// Commands.
	RebanCommandName    = "reban"
	SettingsCommandName = "settings"
	PingCommandName     = "ping"

	// Reban subcommands.
	RebanSearchSubcommand = "search"
	RebanViewSubcommand   = "view"
	RebanDeleteSubcommand = "delete"
	RebanWipeSubcommand   = "wipe"

	// Settings subcommand groups and subcommands.
	UnbansSettingsGroup         = "unbans"
	AddManagerRoleSubcommand    = "add-manager-role"
	RemoveManagerRoleSubcommand = "remove-manager-role"
	ListManagerRolesSubcommand  = "list-manager-roles"
	LoggingSettingsGroup        = "logging"
	SetLoggingChannelSubcommand = "set-channel"
	ToggleLoggingSubcommand     = "toggle"

	// Command options.
	TargetOption  = "user"
	PageOption    = "page"
	IDOption      = "id"
	ReasonOption  = "reason"
	RoleOption    = "role"
	ChannelOption = "channel"
	EnabledOption = "value"

	// Common.
	NotFound          = "Not Found"
	NotApplicable     = "N/A"
	DefaultEmbedColor = 0x23272A
	SuccessEmbedColor = 0x57F287
	DangerEmbedColor  = 0xED4245
	WarningEmbedColor = 0xFEE75C

	// Replies.
	GenericErrorMessage   = "Something went wrong. Please try again later."
	GuildOnlyMessage      = "This command can only be used in a server."
	NotOwnerMessage       = "You are not allowed to use this command."
	MissingPermissionText = "You need the `%s` permission to use this command."
	UnknownCommandMessage = "This command is not available."
)
