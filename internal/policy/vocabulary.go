package policy

// 权限词汇表：全局权限字符串是封闭的 动词×名词 组合加少量命名特殊权限，
// 编译期枚举，未知动作在类型上不可表达

// Verb 全局权限动词
type Verb string

const (
	VerbView        Verb = "view"
	VerbCreate      Verb = "create"
	VerbEdit        Verb = "edit"
	VerbDelete      Verb = "delete"
	VerbRestore     Verb = "restore"
	VerbForceDelete Verb = "force_delete"
	VerbExport      Verb = "export"
	VerbImport      Verb = "import"
)

// StandardVerbs 每个实体名词都会生成的8个标准动词
var StandardVerbs = []Verb{
	VerbView, VerbCreate, VerbEdit, VerbDelete,
	VerbRestore, VerbForceDelete, VerbExport, VerbImport,
}

// Noun 实体名词（复数形式，与权限字符串一致）
type Noun string

const (
	NounMeetings           Noun = "meetings"
	NounMeetingTypes       Noun = "meeting types"
	NounAgendaItems        Noun = "agenda items"
	NounAgendaItemTypes    Noun = "agenda item types"
	NounMinutes            Noun = "minutes"
	NounAnnouncements      Noun = "announcements"
	NounEmploymentStatuses Noun = "employment statuses"
	NounHelpArticles       Noun = "help articles"
	NounHelpCategories     Noun = "help categories"
	NounKeywords           Noun = "keywords"
	NounNotifications      Noun = "notifications"
	NounParticipants       Noun = "participants"
	NounPositions          Noun = "positions"
	NounRoles              Noun = "roles"
	NounPermissions        Noun = "permissions"
	NounSettings           Noun = "settings"
	NounUsers              Noun = "users"
)

// Nouns 全部实体名词
var Nouns = []Noun{
	NounMeetings, NounMeetingTypes, NounAgendaItems, NounAgendaItemTypes,
	NounMinutes, NounAnnouncements, NounEmploymentStatuses, NounHelpArticles,
	NounHelpCategories, NounKeywords, NounNotifications, NounParticipants,
	NounPositions, NounRoles, NounPermissions, NounSettings, NounUsers,
}

// Code 拼装全局权限字符串，如 Code(VerbEdit, NounAgendaItems) == "edit agenda items"
func Code(v Verb, n Noun) string {
	return string(v) + " " + string(n)
}

// 命名特殊权限（不在 动词×名词 网格内）
const (
	PermFinalizeMeetings  = "finalize meetings"
	PermPublishMeetings   = "publish meetings"
	PermDownloadMinutes   = "download minutes"
	PermViewMinutesPDF    = "view minutes pdf"
	PermDownloadAgenda    = "download agenda"
	PermViewAgendaPDF     = "view agenda pdf"
	PermAssignRoles       = "assign roles"
	PermBypassMaintenance = "bypass maintenance"
)

// SpecialPermissions 全部命名特殊权限
var SpecialPermissions = []string{
	PermFinalizeMeetings, PermPublishMeetings,
	PermDownloadMinutes, PermViewMinutesPDF,
	PermDownloadAgenda, PermViewAgendaPDF,
	PermAssignRoles, PermBypassMaintenance,
}

// ContextualPerm 上下文权限（会议类型授权的封闭词汇表）
type ContextualPerm string

const (
	GrantView    ContextualPerm = "view"
	GrantCreate  ContextualPerm = "create"
	GrantEdit    ContextualPerm = "edit"
	GrantDelete  ContextualPerm = "delete"
	GrantPublish ContextualPerm = "publish"
)

// ContextualPerms 全部上下文权限
var ContextualPerms = []ContextualPerm{
	GrantView, GrantCreate, GrantEdit, GrantDelete, GrantPublish,
}

// IsContextualPerm 检查字符串是否属于上下文权限词汇表
func IsContextualPerm(s string) bool {
	for _, p := range ContextualPerms {
		if string(p) == s {
			return true
		}
	}
	return false
}
