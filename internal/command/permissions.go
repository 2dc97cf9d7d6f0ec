package command

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
)

// PermissionNames maps permission flags to the names shown to users.
var PermissionNames = map[int64]string{
	discordgo.PermissionCreateInstantInvite:   "Create Instant Invite",
	discordgo.PermissionKickMembers:           "Kick Members",
	discordgo.PermissionBanMembers:            "Ban Members",
	discordgo.PermissionAdministrator:         "Administrator",
	discordgo.PermissionManageChannels:        "Manage Channels",
	discordgo.PermissionManageServer:          "Manage Server",
	discordgo.PermissionAddReactions:          "Add Reactions",
	discordgo.PermissionViewAuditLogs:         "View Audit Logs",
	discordgo.PermissionViewChannel:           "View Channel",
	discordgo.PermissionSendMessages:          "Send Messages",
	discordgo.PermissionSendTTSMessages:       "Send TTS Messages",
	discordgo.PermissionManageMessages:        "Manage Messages",
	discordgo.PermissionEmbedLinks:            "Embed Links",
	discordgo.PermissionAttachFiles:           "Attach Files",
	discordgo.PermissionReadMessageHistory:    "Read Message History",
	discordgo.PermissionMentionEveryone:       "Mention Everyone",
	discordgo.PermissionUseExternalEmojis:     "Use External Emojis",
	discordgo.PermissionManageThreads:         "Manage Threads",
	discordgo.PermissionCreatePublicThreads:   "Create Public Threads",
	discordgo.PermissionCreatePrivateThreads:  "Create Private Threads",
	discordgo.PermissionSendMessagesInThreads: "Send Messages in Threads",
	discordgo.PermissionVoicePrioritySpeaker:  "Priority Speaker",
	discordgo.PermissionVoiceStreamVideo:      "Stream Video",
	discordgo.PermissionVoiceConnect:          "Connect",
	discordgo.PermissionVoiceSpeak:            "Speak",
	discordgo.PermissionVoiceMuteMembers:      "Mute Members",
	discordgo.PermissionVoiceDeafenMembers:    "Deafen Members",
	discordgo.PermissionVoiceMoveMembers:      "Move Members",
	discordgo.PermissionVoiceUseVAD:           "Use Voice Activity",
	discordgo.PermissionChangeNickname:        "Change Nickname",
	discordgo.PermissionManageNicknames:       "Manage Nicknames",
	discordgo.PermissionManageRoles:           "Manage Roles",
	discordgo.PermissionManageWebhooks:        "Manage Webhooks",
	discordgo.PermissionViewGuildInsights:     "View Server Insights",
	discordgo.PermissionModerateMembers:       "Timeout Members",
}

// PermissionName returns the display name of a single permission flag.
func PermissionName(p int64) string {
	if name, ok := PermissionNames[p]; ok {
		return name
	}
	return fmt.Sprintf("0x%x", p)
}

// Missing lists the permission names the invoker and the bot lack.
type Missing struct {
	User []string
	Bot  []string
}

// OK reports whether nothing is missing.
func (m Missing) OK() bool { return len(m.User) == 0 && len(m.Bot) == 0 }

// Description renders the user-facing explanation. Permissions the invoker
// lacks take priority; the bot's list is only shown when the invoker has
// everything.
func (m Missing) Description() string {
	switch {
	case len(m.User) > 0:
		return "You are missing the following permissions:\n" + quoteLines(m.User)
	case len(m.Bot) > 0:
		return "I am missing the following permissions:\n" + quoteLines(m.Bot)
	}
	return ""
}

func quoteLines(names []string) string {
	return "`" + strings.Join(names, "`\n`") + "`"
}

// Requirements returns what cmd declares; both are nil when it declares nothing.
func Requirements(cmd Command) (user, bot []int64) {
	pp, ok := Root(cmd).(PermissionProvider)
	if !ok {
		return nil, nil
	}
	return pp.UserPermissions(), pp.BotPermissions()
}

// CheckPermissions compares the requirements of cmd against the effective
// channel permissions of the invoker and of the bot. Administrator satisfies
// every requirement.
func CheckPermissions(cmd Command, userPerms, botPerms int64) Missing {
	user, bot := Requirements(cmd)
	return Missing{
		User: missing(user, userPerms),
		Bot:  missing(bot, botPerms),
	}
}

func missing(required []int64, have int64) []string {
	if have&discordgo.PermissionAdministrator != 0 {
		return nil
	}
	var names []string
	for _, p := range required {
		if have&p != p {
			names = append(names, PermissionName(p))
		}
	}
	return names
}
