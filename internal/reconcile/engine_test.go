package reconcile

import (
	"context"
	"database/sql"
	"strings"
	"testing"

	"github.com/dapphari007/leavemon-sub001/internal/department"
	"github.com/dapphari007/leavemon-sub001/internal/position"
	"github.com/dapphari007/leavemon-sub001/internal/user"
	"github.com/dapphari007/leavemon-sub001/internal/workflow"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

// fakeRepo is an in-memory Repository that counts writes, so idempotence
// can be asserted as "second run performs zero writes".
type fakeRepo struct {
	departments []*department.Department
	positions   []*position.Position
	users       []*user.User
	legacy      []*workflow.ApprovalWorkflow
	custom      []*workflow.CustomApprovalWorkflow

	writes int
}

func (f *fakeRepo) WithTx(tx *sql.Tx) Repository { return f }

func (f *fakeRepo) ListDepartments(ctx context.Context) ([]department.Department, error) {
	out := make([]department.Department, len(f.departments))
	for i, d := range f.departments {
		out[i] = *d
	}
	return out, nil
}

func (f *fakeRepo) CreateDepartment(ctx context.Context, d *department.Department) error {
	f.writes++
	cp := *d
	f.departments = append(f.departments, &cp)
	return nil
}

func (f *fakeRepo) FindDepartmentByNameInsensitive(ctx context.Context, name string) (*department.Department, error) {
	for _, d := range f.departments {
		if strings.EqualFold(d.Name, name) {
			cp := *d
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepo) FindDepartmentByID(ctx context.Context, id uuid.UUID) (*department.Department, error) {
	for _, d := range f.departments {
		if d.ID == id {
			cp := *d
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepo) UpdateDepartmentManager(ctx context.Context, id, managerID uuid.UUID) error {
	f.writes++
	for _, d := range f.departments {
		if d.ID == id {
			m := managerID
			d.ManagerID = &m
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *fakeRepo) PositionExists(ctx context.Context, name string, departmentID *uuid.UUID) (bool, error) {
	for _, p := range f.positions {
		if p.Name == name && uuidPtrEq(p.DepartmentID, departmentID) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRepo) CreatePosition(ctx context.Context, p *position.Position) error {
	f.writes++
	cp := *p
	f.positions = append(f.positions, &cp)
	return nil
}

func (f *fakeRepo) FindPositionByNameAndDepartment(ctx context.Context, name string, departmentID *uuid.UUID) (*position.Position, error) {
	for _, p := range f.positions {
		if strings.EqualFold(p.Name, name) && uuidPtrEq(p.DepartmentID, departmentID) {
			cp := *p
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepo) FindPositionByNameInsensitive(ctx context.Context, name string) (*position.Position, error) {
	for _, p := range f.positions {
		if strings.EqualFold(p.Name, name) {
			cp := *p
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepo) FindPositionByID(ctx context.Context, id uuid.UUID) (*position.Position, error) {
	for _, p := range f.positions {
		if p.ID == id {
			cp := *p
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepo) ListUsers(ctx context.Context) ([]user.User, error) {
	out := make([]user.User, len(f.users))
	for i, u := range f.users {
		out[i] = *u
	}
	return out, nil
}

func (f *fakeRepo) UserExists(ctx context.Context, id uuid.UUID) (bool, error) {
	for _, u := range f.users {
		if u.ID == id {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRepo) FindFirstUserByDepartmentAndRole(ctx context.Context, departmentID uuid.UUID, role string) (*user.User, error) {
	for _, u := range f.users {
		if u.DepartmentID != nil && *u.DepartmentID == departmentID && u.Role == role && u.IsActive {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepo) FindFirstUserByRole(ctx context.Context, role string) (*user.User, error) {
	for _, u := range f.users {
		if u.Role == role && u.IsActive {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepo) UpdateUserOrg(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	f.writes++
	for _, u := range f.users {
		if u.ID != id {
			continue
		}
		if v, ok := fields["department_id"]; ok {
			deptID := v.(uuid.UUID)
			u.DepartmentID = &deptID
		}
		if v, ok := fields["department"]; ok {
			name := v.(string)
			u.Department = &name
		}
		if v, ok := fields["position_id"]; ok {
			posID := v.(uuid.UUID)
			u.PositionID = &posID
		}
		if v, ok := fields["position"]; ok {
			name := v.(string)
			u.Position = &name
		}
		return nil
	}
	return gorm.ErrRecordNotFound
}

func (f *fakeRepo) FindLegacyWorkflowByName(ctx context.Context, name string) (*workflow.ApprovalWorkflow, error) {
	for _, w := range f.legacy {
		if w.Name == name {
			cp := *w
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepo) CreateLegacyWorkflow(ctx context.Context, w *workflow.ApprovalWorkflow) error {
	f.writes++
	cp := *w
	f.legacy = append(f.legacy, &cp)
	return nil
}

func (f *fakeRepo) UpdateLegacyWorkflowLevels(ctx context.Context, id uuid.UUID, levels []workflow.ApprovalLevel) error {
	f.writes++
	for _, w := range f.legacy {
		if w.ID == id {
			w.Levels = levels
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *fakeRepo) ListCustomWorkflowsWithEmptyLevels(ctx context.Context) ([]workflow.CustomApprovalWorkflow, error) {
	var out []workflow.CustomApprovalWorkflow
	for _, w := range f.custom {
		if len(w.Levels) == 0 {
			out = append(out, *w)
		}
	}
	return out, nil
}

func (f *fakeRepo) UpdateCustomWorkflowLevels(ctx context.Context, id uuid.UUID, levels []workflow.ApprovalLevel) error {
	f.writes++
	for _, w := range f.custom {
		if w.ID == id {
			w.Levels = levels
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func uuidPtrEq(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func deptNamed(name string) *department.Department {
	return &department.Department{ID: uuid.New(), Name: name, IsActive: true}
}

func TestSyncPositions_CreatesLaddersThenNoOp(t *testing.T) {
	repo := &fakeRepo{departments: []*department.Department{deptNamed("Engineering")}}
	engine := NewEngine(repo)
	ctx := context.Background()

	result := engine.SyncPositions(ctx)
	assert.True(t, result.Success)
	assert.Equal(t, len(departmentLadder)+len(globalLadder), result.Details["created"])

	// Second run against the complete ladder performs zero writes.
	repo.writes = 0
	again := engine.SyncPositions(ctx)
	assert.True(t, again.Success)
	assert.Equal(t, 0, again.Details["created"])
	assert.Equal(t, 0, repo.writes)
}

func TestFixDepartmentHierarchies_PromotesTeamLead(t *testing.T) {
	dept := deptNamed("Support")
	teamLead := &user.User{ID: uuid.New(), Role: user.RoleTeamLead, DepartmentID: &dept.ID, IsActive: true}

	repo := &fakeRepo{
		departments: []*department.Department{dept},
		users:       []*user.User{teamLead},
	}
	engine := NewEngine(repo)

	result := engine.FixDepartmentHierarchies(context.Background())
	assert.True(t, result.Success)
	assert.Equal(t, 1, result.Details["assigned"])
	assert.NotNil(t, repo.departments[0].ManagerID)
	assert.Equal(t, teamLead.ID, *repo.departments[0].ManagerID)
}

func TestFixDepartmentHierarchies_DanglingManagerReplaced(t *testing.T) {
	gone := uuid.New()
	dept := deptNamed("Sales")
	dept.ManagerID = &gone
	manager := &user.User{ID: uuid.New(), Role: user.RoleManager, IsActive: true}

	repo := &fakeRepo{
		departments: []*department.Department{dept},
		users:       []*user.User{manager},
	}
	engine := NewEngine(repo)

	result := engine.FixDepartmentHierarchies(context.Background())
	assert.True(t, result.Success)
	assert.Equal(t, manager.ID, *repo.departments[0].ManagerID)
}

func TestFixDepartmentHierarchies_NoCandidateIsWarningNotFailure(t *testing.T) {
	repo := &fakeRepo{departments: []*department.Department{deptNamed("Empty")}}
	engine := NewEngine(repo)

	result := engine.FixDepartmentHierarchies(context.Background())
	assert.True(t, result.Success)
	assert.Equal(t, 1, result.Details["unassignable"])
	assert.Nil(t, repo.departments[0].ManagerID)
}

func TestFixUserPositions_ResolvesNameToIDAndBack(t *testing.T) {
	dept := deptNamed("Engineering")
	deptName := "engineering" // case differs from the canonical row
	pos := &position.Position{ID: uuid.New(), Name: "Team Lead", Level: 3, DepartmentID: &dept.ID, IsActive: true}
	u := &user.User{ID: uuid.New(), Role: user.RoleTeamLead, Department: &deptName, IsActive: true}

	repo := &fakeRepo{
		departments: []*department.Department{dept},
		positions:   []*position.Position{pos},
		users:       []*user.User{u},
	}
	engine := NewEngine(repo)

	result := engine.FixUserPositions(context.Background())
	assert.True(t, result.Success)
	assert.Equal(t, 1, result.Details["updated"])

	got := repo.users[0]
	assert.Equal(t, dept.ID, *got.DepartmentID)
	assert.Equal(t, "Engineering", *got.Department)
	assert.Equal(t, pos.ID, *got.PositionID)
	assert.Equal(t, "Team Lead", *got.Position)
}

func TestFixUserPositions_FallbackDepartmentCreated(t *testing.T) {
	u := &user.User{ID: uuid.New(), Role: user.RoleEmployee, IsActive: true}
	repo := &fakeRepo{users: []*user.User{u}}
	engine := NewEngine(repo)

	result := engine.FixUserPositions(context.Background())
	assert.True(t, result.Success)

	assert.Len(t, repo.departments, 1)
	assert.Equal(t, fallbackDepartmentName, repo.departments[0].Name)
	assert.Equal(t, repo.departments[0].ID, *repo.users[0].DepartmentID)
	assert.Equal(t, "Employee", *repo.users[0].Position)
}

func TestFixApprovalWorkflows_RestoresCanonicalAndEmptyLevels(t *testing.T) {
	emptyCustom := &workflow.CustomApprovalWorkflow{ID: uuid.New(), Name: "Broken", IsActive: true}
	repo := &fakeRepo{custom: []*workflow.CustomApprovalWorkflow{emptyCustom}}
	engine := NewEngine(repo)

	result := engine.FixApprovalWorkflows(context.Background())
	assert.True(t, result.Success)
	assert.Equal(t, 2, result.Details["legacy_created"])
	assert.Equal(t, 1, result.Details["custom_repaired"])
	assert.NotEmpty(t, repo.custom[0].Levels)
}

func TestFixAllRelationships_IdempotentSecondRun(t *testing.T) {
	dept := deptNamed("Engineering")
	manager := &user.User{ID: uuid.New(), Role: user.RoleManager, DepartmentID: &dept.ID, IsActive: true}

	repo := &fakeRepo{
		departments: []*department.Department{dept},
		users:       []*user.User{manager},
	}
	engine := NewEngine(repo)
	ctx := context.Background()

	results, ok := engine.FixAllRelationships(ctx)
	assert.True(t, ok)
	assert.Len(t, results, 4)
	assert.Greater(t, repo.writes, 0)

	repo.writes = 0
	_, ok = engine.FixAllRelationships(ctx)
	assert.True(t, ok)
	assert.Equal(t, 0, repo.writes)
}

func TestFixAllRelationships_RunsInDependencyOrder(t *testing.T) {
	repo := &fakeRepo{}
	engine := NewEngine(repo)

	results, ok := engine.FixAllRelationships(context.Background())
	assert.True(t, ok)

	names := make([]string, len(results))
	for i, r := range results {
		names[i] = r.Name
	}
	assert.Equal(t, []string{
		"sync_positions",
		"fix_department_hierarchies",
		"fix_user_positions",
		"fix_approval_workflows",
	}, names)
}
