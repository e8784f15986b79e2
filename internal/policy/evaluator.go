package policy

// 授权求值器：纯函数式的allow/deny判定，无副作用
//
// 求值顺序是显式的两段管线：先执行before钩子（超级管理员短路），
// 再执行动作专属规则。只有allow覆盖，没有deny覆盖。
// 拒绝是正常返回值而非错误；查询出错、未认证、规则缺失一律拒绝（fail closed）。

// PermissionSource 全局权限查询接口（由UserService+权限缓存实现）
type PermissionSource interface {
	// IsSuperAdmin 用户是否持有保留的超级管理员角色
	IsSuperAdmin(userID uint) (bool, error)
	// HasPermission 用户的有效全局权限集是否包含指定权限字符串
	HasPermission(userID uint, code string) (bool, error)
}

// GrantSource 上下文授权查询接口（由MeetingTypeService实现）
type GrantSource interface {
	// HasGrant 用户在指定会议类型下是否持有指定上下文权限
	HasGrant(userID, meetingTypeID uint, perm ContextualPerm) (bool, error)
}

// MeetingRef 会议引用：求值器只需要知道会议归属的类型
type MeetingRef struct {
	ID            uint
	MeetingTypeID uint
}

// RoleRef 角色目标引用：保留角色守卫需要检查目标
type RoleRef struct {
	Code       string
	IsReserved bool
}

// MeetingAction 会议动作（封闭枚举）
type MeetingAction int

const (
	MeetingView MeetingAction = iota
	MeetingCreate
	MeetingUpdate
	MeetingDelete
	MeetingRestore
	MeetingForceDelete
	MeetingFinalize
	MeetingPublish
	MeetingDownloadMinutes
	MeetingViewMinutesPDF
	MeetingDownloadAgenda
	MeetingViewAgendaPDF
	MeetingExport
	MeetingImport
)

// ItemAction 委托实体（议程项、纪要）的动作（封闭枚举）
type ItemAction int

const (
	ItemView ItemAction = iota
	ItemCreate
	ItemUpdate
	ItemDelete
	ItemRestore
	ItemForceDelete
	ItemExport
	ItemImport
)

// Evaluator 授权求值器
type Evaluator struct {
	perms  PermissionSource
	grants GrantSource
}

// New 创建求值器
func New(perms PermissionSource, grants GrantSource) *Evaluator {
	return &Evaluator{
		perms:  perms,
		grants: grants,
	}
}

// ========== 内部判定原语 ==========

// isSuperAdmin before钩子：超级管理员直接放行，后续规则不再执行
func (e *Evaluator) isSuperAdmin(userID uint) bool {
	ok, err := e.perms.IsSuperAdmin(userID)
	return err == nil && ok
}

// hasPermission 全局权限判定，查询出错视为拒绝
func (e *Evaluator) hasPermission(userID uint, code string) bool {
	ok, err := e.perms.HasPermission(userID, code)
	return err == nil && ok
}

// hasGrant 上下文授权判定，查询出错视为拒绝
func (e *Evaluator) hasGrant(userID, meetingTypeID uint, perm ContextualPerm) bool {
	ok, err := e.grants.HasGrant(userID, meetingTypeID, perm)
	return err == nil && ok
}

// ========== 扁平权限实体 ==========

// Can 扁平权限判定：超级管理员放行，否则有效权限集须精确包含 "<verb> <noun>"
func (e *Evaluator) Can(userID uint, verb Verb, noun Noun) bool {
	if userID == 0 {
		return false
	}
	if e.isSuperAdmin(userID) {
		return true
	}
	return e.hasPermission(userID, Code(verb, noun))
}

// CanNamed 命名特殊权限判定（assign roles、bypass maintenance等）
func (e *Evaluator) CanNamed(userID uint, code string) bool {
	if userID == 0 {
		return false
	}
	if e.isSuperAdmin(userID) {
		return true
	}
	return e.hasPermission(userID, code)
}

// CanRole 角色目标判定：保留角色的改名/删除无条件拒绝（超级管理员除外）
func (e *Evaluator) CanRole(userID uint, verb Verb, target *RoleRef) bool {
	if userID == 0 {
		return false
	}
	if e.isSuperAdmin(userID) {
		return true
	}
	if target != nil && target.IsReserved {
		switch verb {
		case VerbEdit, VerbDelete, VerbForceDelete:
			return false
		}
	}
	return e.hasPermission(userID, Code(verb, NounRoles))
}

// ========== 会议（上下文实体） ==========

// CanMeeting 会议动作判定
// create在策略层始终放行（可选类型集由调用方收窄），
// 未覆盖的动作落入default拒绝
func (e *Evaluator) CanMeeting(userID uint, action MeetingAction, m MeetingRef) bool {
	if userID == 0 {
		return false
	}
	if e.isSuperAdmin(userID) {
		return true
	}

	switch action {
	case MeetingView:
		return e.hasGrant(userID, m.MeetingTypeID, GrantView)
	case MeetingCreate:
		// 策略层说"可以尝试"，可创建的类型集合由 MeetingService.CreatableTypes 收窄
		return true
	case MeetingUpdate:
		return e.hasGrant(userID, m.MeetingTypeID, GrantEdit)
	case MeetingDelete:
		return e.hasGrant(userID, m.MeetingTypeID, GrantDelete)
	case MeetingRestore:
		return e.hasPermission(userID, Code(VerbRestore, NounMeetings)) &&
			e.hasGrant(userID, m.MeetingTypeID, GrantDelete)
	case MeetingForceDelete:
		return e.hasPermission(userID, Code(VerbForceDelete, NounMeetings)) &&
			e.hasGrant(userID, m.MeetingTypeID, GrantDelete)
	case MeetingFinalize:
		return e.hasPermission(userID, PermFinalizeMeetings) &&
			e.hasGrant(userID, m.MeetingTypeID, GrantEdit)
	case MeetingPublish:
		return e.hasPermission(userID, PermPublishMeetings) &&
			e.hasGrant(userID, m.MeetingTypeID, GrantPublish)
	case MeetingDownloadMinutes:
		return e.hasPermission(userID, PermDownloadMinutes) &&
			e.hasGrant(userID, m.MeetingTypeID, GrantView)
	case MeetingViewMinutesPDF:
		return e.hasPermission(userID, PermViewMinutesPDF) &&
			e.hasGrant(userID, m.MeetingTypeID, GrantView)
	case MeetingDownloadAgenda:
		return e.hasPermission(userID, PermDownloadAgenda) &&
			e.hasGrant(userID, m.MeetingTypeID, GrantView)
	case MeetingViewAgendaPDF:
		return e.hasPermission(userID, PermViewAgendaPDF) &&
			e.hasGrant(userID, m.MeetingTypeID, GrantView)
	case MeetingExport:
		// 导入导出走扁平权限，不要求上下文授权
		return e.hasPermission(userID, Code(VerbExport, NounMeetings))
	case MeetingImport:
		return e.hasPermission(userID, Code(VerbImport, NounMeetings))
	default:
		return false
	}
}

// ========== 委托实体（议程项、纪要） ==========

// CanDelegated 委托实体动作判定：通过所属会议委托
// noun区分议程项和纪要（create/export/import/force_delete的扁平权限按各自名词匹配）
func (e *Evaluator) CanDelegated(userID uint, action ItemAction, noun Noun, owning MeetingRef) bool {
	if userID == 0 {
		return false
	}
	if e.isSuperAdmin(userID) {
		return true
	}

	switch action {
	case ItemView:
		return e.CanMeeting(userID, MeetingView, owning)
	case ItemCreate:
		return e.hasPermission(userID, Code(VerbCreate, noun))
	case ItemUpdate, ItemDelete, ItemRestore:
		// 更新/删除/恢复全部委托给所属会议的编辑授权
		return e.CanMeeting(userID, MeetingUpdate, owning)
	case ItemForceDelete:
		return e.hasPermission(userID, Code(VerbForceDelete, noun)) &&
			e.CanMeeting(userID, MeetingUpdate, owning)
	case ItemExport:
		return e.hasPermission(userID, Code(VerbExport, noun))
	case ItemImport:
		return e.hasPermission(userID, Code(VerbImport, noun))
	default:
		return false
	}
}

// CanAgendaItem 议程项动作判定
func (e *Evaluator) CanAgendaItem(userID uint, action ItemAction, owning MeetingRef) bool {
	return e.CanDelegated(userID, action, NounAgendaItems, owning)
}

// CanMinute 纪要动作判定
func (e *Evaluator) CanMinute(userID uint, action ItemAction, owning MeetingRef) bool {
	return e.CanDelegated(userID, action, NounMinutes, owning)
}
