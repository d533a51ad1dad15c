package route

// Method sets, named so a table entry reads as intent rather than a string
// literal slice.
var (
	get            = []string{"GET"}
	post           = []string{"POST"}
	put            = []string{"PUT"}
	patch          = []string{"PATCH"}
	del            = []string{"DELETE"}
	getPut         = []string{"GET", "PUT"}
	getPost        = []string{"GET", "POST"}
	getPatch       = []string{"GET", "PATCH"}
	putDel         = []string{"PUT", "DELETE"}
	patchDel       = []string{"PATCH", "DELETE"}
	getPutDel      = []string{"GET", "PUT", "DELETE"}
	getPatchDel    = []string{"GET", "PATCH", "DELETE"}
	getPutPatchDel = []string{"GET", "PUT", "PATCH", "DELETE"}
)

var channelRoutes = []routeDef{
	newRoute(getPatchDel, lit("channels"), id("channel_id")),
	newRoute(get, lit("channels"), id("channel_id"), lit("messages")),
	newRoute(post, lit("channels"), id("channel_id"), lit("messages")),
	newRoute(post, lit("channels"), id("channel_id"), lit("messages"), lit("bulk-delete")),
	newRoute(getPatchDel, lit("channels"), id("channel_id"), lit("messages"), idOrMe("message_id")),
	newRoute(post, lit("channels"), id("channel_id"), lit("messages"), id("message_id"), lit("crosspost")),
	newRoute(del, lit("channels"), id("channel_id"), lit("messages"), id("message_id"), lit("reactions")),
	newRoute(get, lit("channels"), id("channel_id"), lit("messages"), id("message_id"), lit("reactions"), opaque("emoji_name")),
	newRoute(del, lit("channels"), id("channel_id"), lit("messages"), id("message_id"), lit("reactions"), opaque("emoji_name")),
	newRoute(putDel, lit("channels"), id("channel_id"), lit("messages"), id("message_id"), lit("reactions"), opaque("emoji_name"), idOrMe("user_id")),
	newRoute(putDel, lit("channels"), id("channel_id"), lit("permissions"), id("overwrite_id")),
	newRoute(getPost, lit("channels"), id("channel_id"), lit("invites")),
	newRoute(post, lit("channels"), id("channel_id"), lit("followers")),
	newRoute(post, lit("channels"), id("channel_id"), lit("typing")),
	newRoute(get, lit("channels"), id("channel_id"), lit("pins")),
	newRoute(putDel, lit("channels"), id("channel_id"), lit("pins"), id("message_id")),
	newRoute(putDel, lit("channels"), id("channel_id"), lit("recipients"), id("user_id")),
	newRoute(post, lit("channels"), id("channel_id"), lit("threads")),
	newRoute(post, lit("channels"), id("channel_id"), lit("messages"), id("message_id"), lit("threads")),
	newRoute(putDel, lit("channels"), id("channel_id"), lit("thread-members"), idOrMe("user_id")),
	newRoute(get, lit("channels"), id("channel_id"), lit("thread-members")),
	newRoute(get, lit("channels"), id("channel_id"), lit("thread-members"), id("user_id")),
	newRoute(get, lit("channels"), id("channel_id"), lit("threads"), lit("archived"), opaque("archived_kind")),
	newRoute(get, lit("channels"), id("channel_id"), lit("users"), lit("@me"), lit("threads"), lit("archived"), opaque("archived_kind")),
	newRoute(getPost, lit("channels"), id("channel_id"), lit("webhooks")),
}

var guildRoutes = []routeDef{
	newRoute(post, lit("guilds")),
	newRoute(getPatchDel, lit("guilds"), id("guild_id")),
	newRoute(getPost, lit("guilds"), id("guild_id"), lit("channels")),
	newRoute(patch, lit("guilds"), id("guild_id"), lit("channels")),
	newRoute(get, lit("guilds"), id("guild_id"), lit("members")),
	newRoute(get, lit("guilds"), id("guild_id"), lit("members"), lit("search")),
	newRoute(getPutPatchDel, lit("guilds"), id("guild_id"), lit("members"), idOrMe("user_id")),
	newRoute(patch, lit("guilds"), id("guild_id"), lit("members"), lit("@me")),
	newRoute(putDel, lit("guilds"), id("guild_id"), lit("members"), id("user_id"), lit("roles"), id("role_id")),
	newRoute(getPost, lit("guilds"), id("guild_id"), lit("bans")),
	newRoute(post, lit("guilds"), id("guild_id"), lit("bulk-ban")),
	newRoute(getPutDel, lit("guilds"), id("guild_id"), lit("bans"), id("user_id")),
	newRoute(getPost, lit("guilds"), id("guild_id"), lit("roles")),
	newRoute(patch, lit("guilds"), id("guild_id"), lit("roles")),
	newRoute(getPatchDel, lit("guilds"), id("guild_id"), lit("roles"), id("role_id")),
	newRoute(getPost, lit("guilds"), id("guild_id"), lit("prune")),
	newRoute(get, lit("guilds"), id("guild_id"), lit("regions")),
	newRoute(get, lit("guilds"), id("guild_id"), lit("invites")),
	newRoute(getPatch, lit("guilds"), id("guild_id"), lit("widget")),
	newRoute(get, lit("guilds"), id("guild_id"), lit("widget.json")),
	newRoute(get, lit("guilds"), id("guild_id"), lit("widget.png")),
	newRoute(get, lit("guilds"), id("guild_id"), lit("vanity-url")),
	newRoute(getPatch, lit("guilds"), id("guild_id"), lit("welcome-screen")),
	newRoute(patch, lit("guilds"), id("guild_id"), lit("voice-states"), lit("@me")),
	newRoute(patch, lit("guilds"), id("guild_id"), lit("voice-states"), id("user_id")),
	newRoute(getPost, lit("guilds"), id("guild_id"), lit("emojis")),
	newRoute(getPatchDel, lit("guilds"), id("guild_id"), lit("emojis"), id("emoji_id")),
	newRoute(getPost, lit("guilds"), id("guild_id"), lit("stickers")),
	newRoute(getPatchDel, lit("guilds"), id("guild_id"), lit("stickers"), id("sticker_id")),
	newRoute(get, lit("guilds"), id("guild_id"), lit("audit-logs")),
	newRoute(getPost, lit("guilds"), id("guild_id"), lit("scheduled-events")),
	newRoute(getPatchDel, lit("guilds"), id("guild_id"), lit("scheduled-events"), id("event_id")),
	newRoute(get, lit("guilds"), id("guild_id"), lit("scheduled-events"), id("event_id"), lit("users")),
	newRoute(getPost, lit("guilds"), id("guild_id"), lit("templates")),
	newRoute(put, lit("guilds"), id("guild_id"), lit("templates"), opaque("template_code")),
	newRoute(patchDel, lit("guilds"), id("guild_id"), lit("templates"), opaque("template_code")),
	newRoute(getPatch, lit("guilds"), id("guild_id"), lit("onboarding")),
	newRoute(get, lit("guilds"), id("guild_id"), lit("integrations")),
	newRoute(del, lit("guilds"), id("guild_id"), lit("integrations"), id("integration_id")),
	newRoute(patch, lit("guilds"), id("guild_id"), lit("mfa")),
}

var userRoutes = []routeDef{
	newRoute(get, lit("users"), lit("@me")),
	newRoute(patch, lit("users"), lit("@me")),
	newRoute(get, lit("users"), id("user_id")),
	newRoute(get, lit("users"), lit("@me"), lit("guilds")),
	newRoute(get, lit("users"), lit("@me"), lit("guilds"), id("guild_id"), lit("member")),
	newRoute(del, lit("users"), lit("@me"), lit("guilds"), id("guild_id")),
	newRoute(post, lit("users"), lit("@me"), lit("channels")),
	newRoute(get, lit("users"), lit("@me"), lit("connections")),
	newRoute(getPut, lit("users"), lit("@me"), lit("applications"), id("application_id"), lit("role-connection")),
}

var webhookRoutes = []routeDef{
	newRoute(getPatchDel, lit("webhooks"), id("webhook_id")),
	newRoute(getPatchDel, lit("webhooks"), id("webhook_id"), opaque("webhook_token")),
	newRoute(post, lit("webhooks"), id("webhook_id"), opaque("webhook_token")),
	newRoute(post, lit("webhooks"), id("webhook_id"), opaque("webhook_token"), lit("slack")),
	newRoute(post, lit("webhooks"), id("webhook_id"), opaque("webhook_token"), lit("github")),
	newRoute(getPatchDel, lit("webhooks"), id("webhook_id"), opaque("webhook_token"), lit("messages"), idOrMe("message_id")),
}

var applicationRoutes = []routeDef{
	newRoute(get, lit("applications"), lit("@me")),
	newRoute(get, lit("applications"), id("application_id"), lit("commands")),
	newRoute(post, lit("applications"), id("application_id"), lit("commands")),
	newRoute(put, lit("applications"), id("application_id"), lit("commands")),
	newRoute(getPatchDel, lit("applications"), id("application_id"), lit("commands"), id("command_id")),
	newRoute(get, lit("applications"), id("application_id"), lit("guilds"), id("guild_id"), lit("commands")),
	newRoute(post, lit("applications"), id("application_id"), lit("guilds"), id("guild_id"), lit("commands")),
	newRoute(put, lit("applications"), id("application_id"), lit("guilds"), id("guild_id"), lit("commands")),
	newRoute(getPatchDel, lit("applications"), id("application_id"), lit("guilds"), id("guild_id"), lit("commands"), id("command_id")),
	newRoute(get, lit("applications"), id("application_id"), lit("guilds"), id("guild_id"), lit("commands"), lit("permissions")),
	newRoute(getPut, lit("applications"), id("application_id"), lit("guilds"), id("guild_id"), lit("commands"), id("command_id"), lit("permissions")),
	newRoute(getPut, lit("applications"), id("application_id"), lit("role-connections"), lit("metadata")),
}

var inviteRoutes = []routeDef{
	newRoute(getPatchDel, lit("invites"), opaque("invite_code")),
}

var interactionRoutes = []routeDef{
	newRoute(post, lit("interactions"), id("interaction_id"), opaque("interaction_token"), lit("callback")),
}

var stageInstanceRoutes = []routeDef{
	newRoute(post, lit("stage-instances")),
	newRoute(getPatchDel, lit("stage-instances"), id("channel_id")),
}

var voiceRoutes = []routeDef{
	newRoute(get, lit("voice"), lit("regions")),
}

var gatewayRoutes = []routeDef{
	newRoute(get, lit("gateway")),
	newRoute(get, lit("gateway"), lit("bot")),
}

var oauth2Routes = []routeDef{
	newRoute(get, lit("oauth2"), lit("applications"), lit("@me")),
	newRoute(get, lit("oauth2"), lit("@me")),
}

var stickerPackRoutes = []routeDef{
	newRoute(get, lit("sticker-packs")),
	newRoute(get, lit("sticker-packs"), id("pack_id")),
}
