package policy

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// ========== 测试用的内存数据源 ==========

type fakePerms struct {
	super map[uint]bool
	perms map[uint]map[string]bool
	err   error
}

func (f *fakePerms) IsSuperAdmin(userID uint) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.super[userID], nil
}

func (f *fakePerms) HasPermission(userID uint, code string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.perms[userID][code], nil
}

type grantKey struct {
	userID        uint
	meetingTypeID uint
}

type fakeGrants struct {
	grants map[grantKey]map[ContextualPerm]bool
	err    error
}

func (f *fakeGrants) HasGrant(userID, meetingTypeID uint, perm ContextualPerm) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.grants[grantKey{userID, meetingTypeID}][perm], nil
}

func newFakes() (*fakePerms, *fakeGrants) {
	return &fakePerms{
			super: make(map[uint]bool),
			perms: make(map[uint]map[string]bool),
		}, &fakeGrants{
			grants: make(map[grantKey]map[ContextualPerm]bool),
		}
}

func (f *fakePerms) allow(userID uint, codes ...string) {
	if f.perms[userID] == nil {
		f.perms[userID] = make(map[string]bool)
	}
	for _, code := range codes {
		f.perms[userID][code] = true
	}
}

func (f *fakeGrants) grant(userID, meetingTypeID uint, perms ...ContextualPerm) {
	key := grantKey{userID, meetingTypeID}
	if f.grants[key] == nil {
		f.grants[key] = make(map[ContextualPerm]bool)
	}
	for _, p := range perms {
		f.grants[key][p] = true
	}
}

// ========== 超级管理员短路 ==========

func TestSuperAdminAllowsEverything(t *testing.T) {
	perms, grants := newFakes()
	perms.super[1] = true
	e := New(perms, grants)

	meeting := MeetingRef{ID: 10, MeetingTypeID: 3}

	// 扁平实体：所有动词×所有名词
	for _, verb := range StandardVerbs {
		for _, noun := range Nouns {
			assert.True(t, e.Can(1, verb, noun), "super admin denied %s", Code(verb, noun))
		}
	}

	// 全部会议动作，无任何上下文授权
	meetingActions := []MeetingAction{
		MeetingView, MeetingCreate, MeetingUpdate, MeetingDelete,
		MeetingRestore, MeetingForceDelete, MeetingFinalize, MeetingPublish,
		MeetingDownloadMinutes, MeetingViewMinutesPDF,
		MeetingDownloadAgenda, MeetingViewAgendaPDF,
		MeetingExport, MeetingImport,
	}
	for _, action := range meetingActions {
		assert.True(t, e.CanMeeting(1, action, meeting), "super admin denied meeting action %d", action)
	}

	// 委托实体与特殊权限
	assert.True(t, e.CanAgendaItem(1, ItemUpdate, meeting))
	assert.True(t, e.CanMinute(1, ItemForceDelete, meeting))
	assert.True(t, e.CanNamed(1, PermBypassMaintenance))

	// 保留角色守卫也被超级管理员覆盖
	assert.True(t, e.CanRole(1, VerbEdit, &RoleRef{Code: "super_admin", IsReserved: true}))
	assert.True(t, e.CanRole(1, VerbDelete, &RoleRef{Code: "super_admin", IsReserved: true}))
}

// ========== 扁平权限精确匹配 ==========

func TestFlatPermissionExactMatch(t *testing.T) {
	perms, grants := newFakes()
	e := New(perms, grants)

	sampleNouns := []Noun{NounAnnouncements, NounKeywords, NounPositions, NounSettings, NounParticipants}

	// 用户2持有部分权限
	perms.allow(2, Code(VerbView, NounAnnouncements), Code(VerbEdit, NounKeywords))

	for _, verb := range StandardVerbs {
		for _, noun := range sampleNouns {
			want := perms.perms[2][Code(verb, noun)]
			assert.Equal(t, want, e.Can(2, verb, noun),
				"flat check mismatch for %s", Code(verb, noun))
		}
	}

	// 动词相同名词不同不得放行
	assert.True(t, e.Can(2, VerbView, NounAnnouncements))
	assert.False(t, e.Can(2, VerbView, NounKeywords))
	assert.False(t, e.Can(2, VerbEdit, NounAnnouncements))
}

// ========== 会议动作 ==========

func TestMeetingViewRequiresGrant(t *testing.T) {
	perms, grants := newFakes()
	e := New(perms, grants)
	meeting := MeetingRef{ID: 1, MeetingTypeID: 7}

	// 全局权限齐全但没有上下文授权：拒绝
	perms.allow(3, Code(VerbView, NounMeetings))
	assert.False(t, e.CanMeeting(3, MeetingView, meeting))

	// 有view授权：放行
	grants.grant(3, 7, GrantView)
	assert.True(t, e.CanMeeting(3, MeetingView, meeting))

	// 授权在别的会议类型上：拒绝
	other := MeetingRef{ID: 2, MeetingTypeID: 8}
	assert.False(t, e.CanMeeting(3, MeetingView, other))
}

func TestMeetingCreateAlwaysAllowedForAuthenticated(t *testing.T) {
	perms, grants := newFakes()
	e := New(perms, grants)
	meeting := MeetingRef{MeetingTypeID: 7}

	// 无任何权限的认证用户也放行，类型集收窄由调用方负责
	assert.True(t, e.CanMeeting(5, MeetingCreate, meeting))
	// 未认证拒绝
	assert.False(t, e.CanMeeting(0, MeetingCreate, meeting))
}

func TestMeetingUpdateDeleteGrants(t *testing.T) {
	perms, grants := newFakes()
	e := New(perms, grants)
	meeting := MeetingRef{ID: 1, MeetingTypeID: 7}

	grants.grant(4, 7, GrantEdit)
	assert.True(t, e.CanMeeting(4, MeetingUpdate, meeting))
	assert.False(t, e.CanMeeting(4, MeetingDelete, meeting))

	grants.grant(4, 7, GrantDelete)
	assert.True(t, e.CanMeeting(4, MeetingDelete, meeting))
}

func TestMeetingRestoreAndForceDeleteRequireBothLayers(t *testing.T) {
	perms, grants := newFakes()
	e := New(perms, grants)
	meeting := MeetingRef{ID: 1, MeetingTypeID: 7}

	// 只有全局权限：拒绝
	perms.allow(5, Code(VerbRestore, NounMeetings), Code(VerbForceDelete, NounMeetings))
	assert.False(t, e.CanMeeting(5, MeetingRestore, meeting))
	assert.False(t, e.CanMeeting(5, MeetingForceDelete, meeting))

	// 加上delete授权：放行
	grants.grant(5, 7, GrantDelete)
	assert.True(t, e.CanMeeting(5, MeetingRestore, meeting))
	assert.True(t, e.CanMeeting(5, MeetingForceDelete, meeting))

	// 只有授权没有全局权限：拒绝
	grants.grant(6, 7, GrantDelete)
	assert.False(t, e.CanMeeting(6, MeetingRestore, meeting))
	assert.False(t, e.CanMeeting(6, MeetingForceDelete, meeting))
}

func TestMeetingFinalizeAndPublish(t *testing.T) {
	perms, grants := newFakes()
	e := New(perms, grants)
	meeting := MeetingRef{ID: 1, MeetingTypeID: 7}

	perms.allow(5, PermFinalizeMeetings, PermPublishMeetings)

	// finalize要求edit授权
	assert.False(t, e.CanMeeting(5, MeetingFinalize, meeting))
	grants.grant(5, 7, GrantEdit)
	assert.True(t, e.CanMeeting(5, MeetingFinalize, meeting))

	// publish要求publish授权，edit不够
	assert.False(t, e.CanMeeting(5, MeetingPublish, meeting))
	grants.grant(5, 7, GrantPublish)
	assert.True(t, e.CanMeeting(5, MeetingPublish, meeting))
}

func TestMeetingDocumentActions(t *testing.T) {
	perms, grants := newFakes()
	e := New(perms, grants)
	meeting := MeetingRef{ID: 1, MeetingTypeID: 7}

	docPerms := map[MeetingAction]string{
		MeetingDownloadMinutes: PermDownloadMinutes,
		MeetingViewMinutesPDF:  PermViewMinutesPDF,
		MeetingDownloadAgenda:  PermDownloadAgenda,
		MeetingViewAgendaPDF:   PermViewAgendaPDF,
	}

	for action, code := range docPerms {
		userID := uint(100) + uint(action)
		// 只有全局权限：拒绝
		perms.allow(userID, code)
		assert.False(t, e.CanMeeting(userID, action, meeting), "action %d without view grant", action)
		// 加上view授权：放行
		grants.grant(userID, 7, GrantView)
		assert.True(t, e.CanMeeting(userID, action, meeting), "action %d with view grant", action)
	}
}

func TestMeetingExportImportFlatOnly(t *testing.T) {
	perms, grants := newFakes()
	e := New(perms, grants)
	meeting := MeetingRef{ID: 1, MeetingTypeID: 7}

	// 无需上下文授权
	perms.allow(8, Code(VerbExport, NounMeetings))
	assert.True(t, e.CanMeeting(8, MeetingExport, meeting))
	assert.False(t, e.CanMeeting(8, MeetingImport, meeting))

	perms.allow(8, Code(VerbImport, NounMeetings))
	assert.True(t, e.CanMeeting(8, MeetingImport, meeting))
}

// ========== 委托实体 ==========

func TestDelegationMatchesOwningMeeting(t *testing.T) {
	perms, grants := newFakes()
	e := New(perms, grants)
	meeting := MeetingRef{ID: 1, MeetingTypeID: 7}

	users := []uint{20, 21, 22}
	grants.grant(21, 7, GrantEdit)
	grants.grant(22, 7, GrantView)

	// update/delete/restore必须与所属会议的update判定完全一致
	for _, userID := range users {
		want := e.CanMeeting(userID, MeetingUpdate, meeting)
		for _, action := range []ItemAction{ItemUpdate, ItemDelete, ItemRestore} {
			assert.Equal(t, want, e.CanAgendaItem(userID, action, meeting),
				"agenda item action %d diverges from meeting update for user %d", action, userID)
			assert.Equal(t, want, e.CanMinute(userID, action, meeting),
				"minute action %d diverges from meeting update for user %d", action, userID)
		}
		// view与会议view一致
		assert.Equal(t, e.CanMeeting(userID, MeetingView, meeting),
			e.CanAgendaItem(userID, ItemView, meeting))
	}
}

func TestDelegatedForceDeleteRequiresBoth(t *testing.T) {
	perms, grants := newFakes()
	e := New(perms, grants)
	meeting := MeetingRef{ID: 1, MeetingTypeID: 7}

	// 只有全局force_delete：拒绝
	perms.allow(23, Code(VerbForceDelete, NounAgendaItems))
	assert.False(t, e.CanAgendaItem(23, ItemForceDelete, meeting))

	// 加上所属会议的edit授权：放行
	grants.grant(23, 7, GrantEdit)
	assert.True(t, e.CanAgendaItem(23, ItemForceDelete, meeting))

	// 纪要的force_delete按自己的名词匹配，议程项的权限不生效
	assert.False(t, e.CanMinute(23, ItemForceDelete, meeting))
}

func TestDelegatedCreateExportImportFlat(t *testing.T) {
	perms, grants := newFakes()
	e := New(perms, grants)
	meeting := MeetingRef{ID: 1, MeetingTypeID: 7}

	perms.allow(24, Code(VerbCreate, NounMinutes), Code(VerbExport, NounAgendaItems))

	assert.True(t, e.CanMinute(24, ItemCreate, meeting))
	assert.False(t, e.CanAgendaItem(24, ItemCreate, meeting))
	assert.True(t, e.CanAgendaItem(24, ItemExport, meeting))
	assert.False(t, e.CanMinute(24, ItemImport, meeting))
}

// ========== 保留角色守卫 ==========

func TestReservedRoleGuard(t *testing.T) {
	perms, grants := newFakes()
	e := New(perms, grants)

	// 用户持有全部角色相关全局权限
	for _, verb := range StandardVerbs {
		perms.allow(30, Code(verb, NounRoles))
	}

	reserved := &RoleRef{Code: "super_admin", IsReserved: true}
	normal := &RoleRef{Code: "dean", IsReserved: false}

	// 保留角色：改名/删除被拒
	assert.False(t, e.CanRole(30, VerbEdit, reserved))
	assert.False(t, e.CanRole(30, VerbDelete, reserved))
	assert.False(t, e.CanRole(30, VerbForceDelete, reserved))
	// 查看不受守卫影响
	assert.True(t, e.CanRole(30, VerbView, reserved))

	// 普通角色不受影响
	assert.True(t, e.CanRole(30, VerbEdit, normal))
	assert.True(t, e.CanRole(30, VerbDelete, normal))

	// 无目标（类级检查）不触发守卫
	assert.True(t, e.CanRole(30, VerbCreate, nil))
}

// ========== 失败关闭 ==========

func TestUnknownActionDenied(t *testing.T) {
	perms, grants := newFakes()
	perms.allow(40, Code(VerbView, NounMeetings))
	grants.grant(40, 7, GrantView, GrantEdit, GrantDelete, GrantPublish)
	e := New(perms, grants)
	meeting := MeetingRef{ID: 1, MeetingTypeID: 7}

	assert.False(t, e.CanMeeting(40, MeetingAction(99), meeting))
	assert.False(t, e.CanAgendaItem(40, ItemAction(99), meeting))
}

func TestUnauthenticatedDenied(t *testing.T) {
	perms, grants := newFakes()
	e := New(perms, grants)
	meeting := MeetingRef{ID: 1, MeetingTypeID: 7}

	assert.False(t, e.Can(0, VerbView, NounAnnouncements))
	assert.False(t, e.CanMeeting(0, MeetingView, meeting))
	assert.False(t, e.CanNamed(0, PermBypassMaintenance))
	assert.False(t, e.CanRole(0, VerbView, nil))
}

func TestSourceErrorDenies(t *testing.T) {
	perms, grants := newFakes()
	perms.super[50] = true
	perms.allow(50, Code(VerbView, NounAnnouncements))
	grants.grant(50, 7, GrantView)

	perms.err = errors.New("db down")
	grants.err = errors.New("db down")
	e := New(perms, grants)
	meeting := MeetingRef{ID: 1, MeetingTypeID: 7}

	assert.False(t, e.Can(50, VerbView, NounAnnouncements))
	assert.False(t, e.CanMeeting(50, MeetingView, meeting))
}

// ========== 端到端场景 ==========

// 教务长持有全局"edit meetings"但没有学术委员会的上下文授权，
// 授予edit后才允许更新该类型下的会议
func TestRegistrarScenario(t *testing.T) {
	perms, grants := newFakes()
	e := New(perms, grants)

	const registrar = uint(60)
	const academicCouncil = uint(9)
	meeting := MeetingRef{ID: 5, MeetingTypeID: academicCouncil}

	perms.allow(registrar, Code(VerbEdit, NounMeetings), Code(VerbView, NounMeetings))

	assert.False(t, e.CanMeeting(registrar, MeetingUpdate, meeting))

	grants.grant(registrar, academicCouncil, GrantEdit)
	assert.True(t, e.CanMeeting(registrar, MeetingUpdate, meeting))
}

// ========== 词汇表 ==========

func TestCodeFormat(t *testing.T) {
	assert.Equal(t, "edit agenda items", Code(VerbEdit, NounAgendaItems))
	assert.Equal(t, "force_delete meetings", Code(VerbForceDelete, NounMeetings))
	assert.Equal(t, "view users", Code(VerbView, NounUsers))
}

func TestIsContextualPerm(t *testing.T) {
	for _, p := range ContextualPerms {
		assert.True(t, IsContextualPerm(string(p)))
	}
	assert.False(t, IsContextualPerm("finalize"))
	assert.False(t, IsContextualPerm(""))
	assert.False(t, IsContextualPerm("View"))
}

func TestVocabularyCoversAllNouns(t *testing.T) {
	// 词汇表完整性：8个标准动词 × 全部名词不重不漏
	seen := make(map[string]bool)
	for _, verb := range StandardVerbs {
		for _, noun := range Nouns {
			code := Code(verb, noun)
			assert.False(t, seen[code], "duplicate permission code %s", code)
			seen[code] = true
		}
	}
	assert.Equal(t, len(StandardVerbs)*len(Nouns), len(seen))

	// 特殊权限不与网格冲突
	for _, special := range SpecialPermissions {
		assert.False(t, seen[special], fmt.Sprintf("special permission %s collides with grid", special))
	}
}
