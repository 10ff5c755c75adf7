package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/yukikurage/tenant-task-api/internal/access"
	"github.com/yukikurage/tenant-task-api/internal/audit"
	"github.com/yukikurage/tenant-task-api/internal/auth"
	"github.com/yukikurage/tenant-task-api/internal/models"
	"github.com/yukikurage/tenant-task-api/internal/repository"
	"github.com/yukikurage/tenant-task-api/internal/testutil"
	"github.com/yukikurage/tenant-task-api/internal/utils"
)

// ServiceTestSuite wires the services to sqlite-backed repositories
type ServiceTestSuite struct {
	suite.Suite
	ctx      context.Context
	db       *gorm.DB
	recorder *audit.Recorder
	hasher   *auth.BcryptHasher
	tokens   *auth.TokenIssuer

	tenantRepo repository.TenantRepository
	userRepo   repository.UserRepository

	auth     *AuthService
	tenants  *TenantService
	admin    *AdminService
	users    *UserService
	projects *ProjectService
	tasks    *TaskService

	acme       *models.Tenant
	globex     *models.Tenant
	acmeAdmin  *models.User
	acmeMember *models.User
	root       *models.User
}

// SetupTest runs before each test
func (suite *ServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.db = testutil.NewDB(suite.T())
	suite.recorder = audit.NewRecorder(suite.db, zap.NewNop(), nil)
	suite.hasher = auth.NewBcryptHasher(bcrypt.MinCost)
	suite.tokens = auth.NewTokenIssuer("test-secret", 24*time.Hour)

	suite.tenantRepo = repository.NewTenantRepository(suite.db, suite.recorder)
	suite.userRepo = repository.NewUserRepository(suite.db, suite.recorder)
	projectRepo := repository.NewProjectRepository(suite.db)
	taskRepo := repository.NewTaskRepository(suite.db)
	auditRepo := repository.NewAuditLogRepository(suite.db)

	authz := access.NewAuthorizer(nil)
	limits := access.NewLimitGuard(suite.tenantRepo, nil)

	suite.auth = NewAuthService(suite.tenantRepo, suite.userRepo, suite.hasher, suite.tokens, suite.recorder)
	suite.tenants = NewTenantService(suite.tenantRepo, auditRepo, authz, suite.recorder)
	suite.admin = NewAdminService(suite.tenantRepo, suite.userRepo, authz, suite.recorder)
	suite.users = NewUserService(suite.userRepo, suite.hasher, authz, limits, suite.recorder)
	suite.projects = NewProjectService(projectRepo, authz, limits, suite.recorder)
	suite.tasks = NewTaskService(taskRepo, projectRepo, suite.userRepo, authz, suite.recorder)

	suite.acme = testutil.CreateTenant(suite.T(), suite.db, "acme")
	suite.globex = testutil.CreateTenant(suite.T(), suite.db, "globex")
	suite.acmeAdmin = testutil.CreateUser(suite.T(), suite.db, &suite.acme.ID, "admin@acme.com", models.RoleTenantAdmin)
	suite.acmeMember = testutil.CreateUser(suite.T(), suite.db, &suite.acme.ID, "member@acme.com", models.RoleUser)
	suite.root = testutil.CreateUser(suite.T(), suite.db, nil, "root@example.com", models.RoleSuperAdmin)
}

// TearDownTest waits for background audit writes before the database closes
func (suite *ServiceTestSuite) TearDownTest() {
	suite.recorder.Flush()
}

func callerOf(u *models.User) Caller {
	return Caller{Principal: access.PrincipalFromUser(u), IP: "127.0.0.1"}
}

func (suite *ServiceTestSuite) TestRegisterTenant() {
	tenant, admin, err := suite.auth.RegisterTenant(suite.ctx, RegisterTenantInput{
		TenantName:    "Initech",
		Subdomain:     "  Initech ",
		AdminEmail:    "Boss@Initech.com",
		AdminPassword: "Passw0rd1",
		AdminFullName: "Bill",
	})
	suite.Require().NoError(err)
	suite.Equal("initech", tenant.Subdomain)
	suite.Equal(models.TenantStatusActive, tenant.Status)
	suite.Equal(models.PlanFree, tenant.SubscriptionPlan)
	suite.Equal(5, tenant.MaxUsers)
	suite.Equal(3, tenant.MaxProjects)
	suite.Equal(models.RoleTenantAdmin, admin.Role)
	suite.Equal("boss@initech.com", admin.Email)
	suite.NotEqual("Passw0rd1", admin.PasswordHash)

	_, _, err = suite.auth.RegisterTenant(suite.ctx, RegisterTenantInput{
		TenantName: "Other", Subdomain: "initech", AdminEmail: "x@y.com", AdminPassword: "Passw0rd1", AdminFullName: "X",
	})
	suite.ErrorIs(err, ErrSubdomainTaken)
	suite.ErrorIs(err, access.ErrConflict)
}

func (suite *ServiceTestSuite) TestRegisterTenant_Validation() {
	valid := RegisterTenantInput{TenantName: "Initech", Subdomain: "initech", AdminEmail: "a@b.com", AdminPassword: "Passw0rd1", AdminFullName: "A"}

	cases := []func(in *RegisterTenantInput){
		func(in *RegisterTenantInput) { in.Subdomain = "ab" },
		func(in *RegisterTenantInput) { in.Subdomain = "-initech" },
		func(in *RegisterTenantInput) { in.Subdomain = "init_tech" },
		func(in *RegisterTenantInput) { in.AdminPassword = "short1" },
		func(in *RegisterTenantInput) { in.AdminPassword = "longpassword" },
		func(in *RegisterTenantInput) { in.AdminPassword = "1234567890" },
		func(in *RegisterTenantInput) { in.TenantName = " " },
		func(in *RegisterTenantInput) { in.AdminFullName = "" },
	}
	for i, mutate := range cases {
		input := valid
		mutate(&input)
		_, _, err := suite.auth.RegisterTenant(suite.ctx, input)
		suite.ErrorIs(err, access.ErrValidation, "case %d", i)
	}
}

func (suite *ServiceTestSuite) TestLogin() {
	_, _, err := suite.auth.RegisterTenant(suite.ctx, RegisterTenantInput{
		TenantName: "Initech", Subdomain: "initech", AdminEmail: "a@initech.com", AdminPassword: "Passw0rd1", AdminFullName: "A",
	})
	suite.Require().NoError(err)

	result, err := suite.auth.Login(suite.ctx, LoginInput{Email: "a@initech.com", Password: "Passw0rd1", TenantSubdomain: "initech"})
	suite.Require().NoError(err)
	suite.NotEmpty(result.Token)
	suite.Equal(24*time.Hour, result.ExpiresIn)
	suite.Equal("initech", result.Tenant.Subdomain)

	claims, err := suite.tokens.Verify(result.Token)
	suite.Require().NoError(err)
	suite.Equal(result.User.ID, claims.UserID)

	_, err = suite.auth.Login(suite.ctx, LoginInput{Email: "a@initech.com", Password: "wrong-pass1", TenantSubdomain: "initech"})
	suite.ErrorIs(err, ErrInvalidCredentials)

	_, err = suite.auth.Login(suite.ctx, LoginInput{Email: "a@initech.com", Password: "Passw0rd1", TenantSubdomain: "nowhere"})
	suite.ErrorIs(err, access.ErrNotFound)

	_, err = suite.auth.Login(suite.ctx, LoginInput{Email: "a@initech.com", Password: "Passw0rd1"})
	suite.ErrorIs(err, ErrSubdomainRequired)
}

func (suite *ServiceTestSuite) TestLogin_InactiveTenantAndUser() {
	hash, err := suite.hasher.Hash("Passw0rd1")
	suite.Require().NoError(err)
	suite.acmeMember.PasswordHash = hash
	suite.acmeMember.IsActive = false
	suite.Require().NoError(suite.db.Save(suite.acmeMember).Error)

	_, err = suite.auth.Login(suite.ctx, LoginInput{Email: "member@acme.com", Password: "Passw0rd1", TenantSubdomain: "acme"})
	suite.ErrorIs(err, access.ErrInactiveAccount)

	suite.acme.Status = models.TenantStatusSuspended
	suite.Require().NoError(suite.db.Save(suite.acme).Error)
	_, err = suite.auth.Login(suite.ctx, LoginInput{Email: "member@acme.com", Password: "Passw0rd1", TenantSubdomain: "acme"})
	suite.ErrorIs(err, access.ErrTenantInactive)
}

func (suite *ServiceTestSuite) TestLogin_SuperAdmin() {
	err := EnsureSuperAdmin(suite.ctx, suite.userRepo, suite.hasher, SuperAdminSeed{Email: "Owner@Example.com", Password: "Passw0rd1", FullName: "Owner"}, zap.NewNop())
	suite.Require().NoError(err)
	// a second run is a no-op
	suite.Require().NoError(EnsureSuperAdmin(suite.ctx, suite.userRepo, suite.hasher, SuperAdminSeed{Email: "owner@example.com", Password: "Passw0rd1", FullName: "Owner"}, zap.NewNop()))

	result, err := suite.auth.Login(suite.ctx, LoginInput{Email: "owner@example.com", Password: "Passw0rd1"})
	suite.Require().NoError(err)
	suite.Nil(result.User.TenantID)
	suite.Nil(result.Tenant)
	suite.Equal(models.RoleSuperAdmin, result.User.Role)
}

func (suite *ServiceTestSuite) TestProjectQuota() {
	caller := callerOf(suite.acmeMember)
	for i := 0; i < 3; i++ {
		_, err := suite.projects.CreateProject(suite.ctx, caller, CreateProjectInput{Name: "P"})
		suite.Require().NoError(err, "project %d", i+1)
	}

	_, err := suite.projects.CreateProject(suite.ctx, caller, CreateProjectInput{Name: "P4"})
	var limitErr *access.LimitReachedError
	suite.Require().ErrorAs(err, &limitErr)
	suite.Equal(int64(3), limitErr.Current)
	suite.Equal(int64(3), limitErr.Limit)
	suite.ErrorIs(err, access.ErrLimitReached)
}

func (suite *ServiceTestSuite) TestUserQuota() {
	suite.acme.MaxUsers = 3
	suite.Require().NoError(suite.db.Save(suite.acme).Error)

	caller := callerOf(suite.acmeAdmin)
	_, err := suite.users.AddUser(suite.ctx, caller, AddUserInput{Email: "third@acme.com", Password: "Passw0rd1", FullName: "Third"})
	suite.Require().NoError(err)

	_, err = suite.users.AddUser(suite.ctx, caller, AddUserInput{Email: "fourth@acme.com", Password: "Passw0rd1", FullName: "Fourth"})
	suite.ErrorIs(err, access.ErrLimitReached)
}

func (suite *ServiceTestSuite) TestAddUser_Rules() {
	_, err := suite.users.AddUser(suite.ctx, callerOf(suite.acmeMember), AddUserInput{Email: "x@acme.com", Password: "Passw0rd1", FullName: "X"})
	suite.ErrorIs(err, access.ErrForbidden)

	_, err = suite.users.AddUser(suite.ctx, callerOf(suite.root), AddUserInput{TenantID: suite.acme.ID, Email: "x@acme.com", Password: "Passw0rd1", FullName: "X"})
	suite.ErrorIs(err, access.ErrForbidden)

	_, err = suite.users.AddUser(suite.ctx, callerOf(suite.acmeAdmin), AddUserInput{TenantID: suite.globex.ID, Email: "x@acme.com", Password: "Passw0rd1", FullName: "X"})
	suite.ErrorIs(err, access.ErrForbidden)

	_, err = suite.users.AddUser(suite.ctx, callerOf(suite.acmeAdmin), AddUserInput{Email: "member@acme.com", Password: "Passw0rd1", FullName: "Dup"})
	suite.ErrorIs(err, ErrEmailTaken)

	_, err = suite.users.AddUser(suite.ctx, callerOf(suite.acmeAdmin), AddUserInput{Email: "x@acme.com", Password: "Passw0rd1", FullName: "X", Role: models.RoleSuperAdmin})
	suite.ErrorIs(err, ErrInvalidRole)

	user, err := suite.users.AddUser(suite.ctx, callerOf(suite.acmeAdmin), AddUserInput{Email: "x@acme.com", Password: "Passw0rd1", FullName: "X", Role: models.RoleTenantAdmin})
	suite.Require().NoError(err)
	suite.Equal(suite.acme.ID, *user.TenantID)
	suite.Equal(models.RoleTenantAdmin, user.Role)
}

func (suite *ServiceTestSuite) TestProjectOwnership() {
	other := testutil.CreateUser(suite.T(), suite.db, &suite.acme.ID, "other@acme.com", models.RoleUser)
	project, err := suite.projects.CreateProject(suite.ctx, callerOf(suite.acmeMember), CreateProjectInput{Name: "Mine"})
	suite.Require().NoError(err)

	renamed := "Renamed"
	_, err = suite.projects.UpdateProject(suite.ctx, callerOf(other), project.ID, UpdateProjectInput{Name: &renamed})
	suite.ErrorIs(err, access.ErrForbidden)

	updated, err := suite.projects.UpdateProject(suite.ctx, callerOf(suite.acmeMember), project.ID, UpdateProjectInput{Name: &renamed})
	suite.Require().NoError(err)
	suite.Equal("Renamed", updated.Name)

	suite.ErrorIs(suite.projects.DeleteProject(suite.ctx, callerOf(other), project.ID), access.ErrForbidden)
	suite.NoError(suite.projects.DeleteProject(suite.ctx, callerOf(suite.acmeAdmin), project.ID))
}

func (suite *ServiceTestSuite) TestProjectCrossTenant() {
	globexProject := testutil.CreateProject(suite.T(), suite.db, suite.globex.ID, "Secret", nil)

	_, err := suite.projects.GetProject(suite.ctx, callerOf(suite.acmeAdmin), globexProject.ID)
	suite.ErrorIs(err, access.ErrNotFound)
	suite.ErrorIs(suite.projects.DeleteProject(suite.ctx, callerOf(suite.acmeAdmin), globexProject.ID), access.ErrNotFound)

	_, _, err = suite.projects.ListProjects(suite.ctx, callerOf(suite.acmeAdmin), suite.globex.ID, repository.ProjectFilter{})
	suite.ErrorIs(err, access.ErrForbidden)

	found, err := suite.projects.GetProject(suite.ctx, callerOf(suite.root), globexProject.ID)
	suite.Require().NoError(err)
	suite.Equal("Secret", found.Name)

	_, err = suite.projects.CreateProject(suite.ctx, callerOf(suite.root), CreateProjectInput{Name: "No tenant"})
	suite.ErrorIs(err, access.ErrValidation)

	created, err := suite.projects.CreateProject(suite.ctx, callerOf(suite.root), CreateProjectInput{TenantID: suite.globex.ID, Name: "By root"})
	suite.Require().NoError(err)
	suite.Equal(suite.globex.ID, created.TenantID)
}

func (suite *ServiceTestSuite) TestTaskLifecycle() {
	caller := callerOf(suite.acmeMember)
	project, err := suite.projects.CreateProject(suite.ctx, caller, CreateProjectInput{Name: "P1"})
	suite.Require().NoError(err)

	task, err := suite.tasks.CreateTask(suite.ctx, caller, project.ID, CreateTaskInput{Title: "T1", AssignedTo: &suite.acmeAdmin.ID})
	suite.Require().NoError(err)
	suite.Equal(suite.acme.ID, task.TenantID)
	suite.Equal(models.TaskStatusTodo, task.Status)
	suite.Equal(models.TaskPriorityMedium, task.Priority)

	tasks, total, err := suite.tasks.ListProjectTasks(suite.ctx, caller, project.ID, repository.TaskFilter{Pagination: utils.ParsePagination("", "")})
	suite.Require().NoError(err)
	suite.Equal(int64(1), total)
	suite.Equal("T1", tasks[0].Title)

	// any member may change any task in the tenant
	updated, err := suite.tasks.UpdateTaskStatus(suite.ctx, callerOf(suite.acmeAdmin), task.ID, models.TaskStatusInProgress)
	suite.Require().NoError(err)
	suite.Equal(models.TaskStatusInProgress, updated.Status)

	updated, err = suite.tasks.UpdateTask(suite.ctx, caller, task.ID, UpdateTaskInput{ClearAssignee: true})
	suite.Require().NoError(err)
	suite.Nil(updated.AssignedTo)

	suite.Require().NoError(suite.tasks.DeleteTask(suite.ctx, caller, task.ID))
	_, err = suite.tasks.GetTask(suite.ctx, caller, task.ID)
	suite.ErrorIs(err, access.ErrNotFound)
}

func (suite *ServiceTestSuite) TestTaskStatusIsIdempotent() {
	project := testutil.CreateProject(suite.T(), suite.db, suite.acme.ID, "P1", nil)
	task := testutil.CreateTask(suite.T(), suite.db, project, "T1", nil)

	first, err := suite.tasks.UpdateTaskStatus(suite.ctx, callerOf(suite.acmeMember), task.ID, models.TaskStatusCompleted)
	suite.Require().NoError(err)
	second, err := suite.tasks.UpdateTaskStatus(suite.ctx, callerOf(suite.acmeMember), task.ID, models.TaskStatusCompleted)
	suite.Require().NoError(err)

	suite.Equal(models.TaskStatusCompleted, second.Status)
	suite.Equal(first.Title, second.Title)
	suite.False(second.UpdatedAt.Before(first.UpdatedAt))

	_, err = suite.tasks.UpdateTaskStatus(suite.ctx, callerOf(suite.acmeMember), task.ID, "done")
	suite.ErrorIs(err, access.ErrValidation)
}

func (suite *ServiceTestSuite) TestTaskAssigneeMustShareTenant() {
	project := testutil.CreateProject(suite.T(), suite.db, suite.acme.ID, "P1", nil)
	outsider := testutil.CreateUser(suite.T(), suite.db, &suite.globex.ID, "g@globex.com", models.RoleUser)

	_, err := suite.tasks.CreateTask(suite.ctx, callerOf(suite.acmeMember), project.ID, CreateTaskInput{Title: "T1", AssignedTo: &outsider.ID})
	suite.ErrorIs(err, ErrInvalidAssignee)

	globexProject := testutil.CreateProject(suite.T(), suite.db, suite.globex.ID, "G", nil)
	_, err = suite.tasks.CreateTask(suite.ctx, callerOf(suite.acmeMember), globexProject.ID, CreateTaskInput{Title: "T1"})
	suite.ErrorIs(err, access.ErrNotFound)
}

func (suite *ServiceTestSuite) TestUpdateUser() {
	name := "New Name"
	_, err := suite.users.UpdateUser(suite.ctx, callerOf(suite.acmeAdmin), suite.acmeMember.ID, UpdateUserInput{FullName: &name})
	suite.ErrorIs(err, access.ErrForbidden)

	updated, err := suite.users.UpdateUser(suite.ctx, callerOf(suite.acmeMember), suite.acmeMember.ID, UpdateUserInput{FullName: &name})
	suite.Require().NoError(err)
	suite.Equal("New Name", updated.FullName)

	inactive := false
	_, err = suite.users.UpdateUser(suite.ctx, callerOf(suite.acmeMember), suite.acmeMember.ID, UpdateUserInput{IsActive: &inactive})
	suite.ErrorIs(err, access.ErrForbidden)

	admin := models.RoleTenantAdmin
	_, err = suite.users.UpdateUser(suite.ctx, callerOf(suite.acmeAdmin), suite.acmeAdmin.ID, UpdateUserInput{Role: &admin})
	suite.ErrorIs(err, access.ErrForbidden)

	updated, err = suite.users.UpdateUser(suite.ctx, callerOf(suite.acmeAdmin), suite.acmeMember.ID, UpdateUserInput{Role: &admin, IsActive: &inactive})
	suite.Require().NoError(err)
	suite.Equal(models.RoleTenantAdmin, updated.Role)
	suite.False(updated.IsActive)

	root := models.RoleSuperAdmin
	_, err = suite.users.UpdateUser(suite.ctx, callerOf(suite.root), suite.acmeMember.ID, UpdateUserInput{Role: &root})
	suite.ErrorIs(err, ErrInvalidRole)
}

func (suite *ServiceTestSuite) TestDeleteUser() {
	suite.ErrorIs(suite.users.DeleteUser(suite.ctx, callerOf(suite.acmeAdmin), suite.acmeAdmin.ID), access.ErrForbidden)
	suite.ErrorIs(suite.users.DeleteUser(suite.ctx, callerOf(suite.acmeMember), suite.acmeAdmin.ID), access.ErrForbidden)

	outsider := testutil.CreateUser(suite.T(), suite.db, &suite.globex.ID, "g@globex.com", models.RoleUser)
	suite.ErrorIs(suite.users.DeleteUser(suite.ctx, callerOf(suite.acmeAdmin), outsider.ID), access.ErrNotFound)
	suite.NoError(suite.users.DeleteUser(suite.ctx, callerOf(suite.root), outsider.ID))

	suite.Require().NoError(suite.users.DeleteUser(suite.ctx, callerOf(suite.acmeAdmin), suite.acmeMember.ID))
	_, err := suite.userRepo.FindByID(suite.ctx, suite.acmeMember.ID)
	suite.ErrorIs(err, access.ErrNotFound)
}

func (suite *ServiceTestSuite) TestTenantVisibility() {
	detail, err := suite.tenants.GetTenant(suite.ctx, callerOf(suite.acmeMember), suite.acme.ID)
	suite.Require().NoError(err)
	suite.False(detail.ShowSubscription)
	suite.Equal(int64(2), detail.Stats.TotalUsers)

	_, err = suite.tenants.GetTenant(suite.ctx, callerOf(suite.acmeAdmin), suite.globex.ID)
	suite.ErrorIs(err, access.ErrNotFound)

	detail, err = suite.tenants.GetTenant(suite.ctx, callerOf(suite.root), suite.globex.ID)
	suite.Require().NoError(err)
	suite.True(detail.ShowSubscription)
}

func (suite *ServiceTestSuite) TestUpdateTenant() {
	name := "Acme Corp"
	detail, err := suite.tenants.UpdateTenant(suite.ctx, callerOf(suite.acmeAdmin), suite.acme.ID, UpdateTenantInput{Name: &name})
	suite.Require().NoError(err)
	suite.Equal("Acme Corp", detail.Tenant.Name)

	_, err = suite.tenants.UpdateTenant(suite.ctx, callerOf(suite.acmeMember), suite.acme.ID, UpdateTenantInput{Name: &name})
	suite.ErrorIs(err, access.ErrForbidden)

	plan := models.PlanPro
	_, err = suite.tenants.UpdateTenant(suite.ctx, callerOf(suite.acmeAdmin), suite.acme.ID, UpdateTenantInput{SubscriptionPlan: &plan})
	suite.ErrorIs(err, access.ErrForbidden)

	maxProjects := 40
	detail, err = suite.tenants.UpdateTenant(suite.ctx, callerOf(suite.root), suite.acme.ID, UpdateTenantInput{SubscriptionPlan: &plan, MaxProjects: &maxProjects})
	suite.Require().NoError(err)
	suite.Equal(models.PlanPro, detail.Tenant.SubscriptionPlan)
	suite.Equal(25, detail.Tenant.MaxUsers)
	suite.Equal(40, detail.Tenant.MaxProjects)
}

func (suite *ServiceTestSuite) TestTenantStatusMachine() {
	_, err := suite.admin.UpdateTenantStatus(suite.ctx, callerOf(suite.acmeAdmin), suite.acme.ID, models.TenantStatusSuspended)
	suite.ErrorIs(err, access.ErrForbidden)

	root := callerOf(suite.root)
	tenant, err := suite.admin.UpdateTenantStatus(suite.ctx, root, suite.acme.ID, models.TenantStatusSuspended)
	suite.Require().NoError(err)
	suite.Equal(models.TenantStatusSuspended, tenant.Status)

	_, err = suite.admin.UpdateTenantStatus(suite.ctx, root, suite.acme.ID, models.TenantStatusSuspended)
	suite.NoError(err)

	_, err = suite.admin.UpdateTenantStatus(suite.ctx, root, suite.acme.ID, models.TenantStatusTrial)
	suite.ErrorIs(err, access.ErrValidation)

	_, err = suite.admin.UpdateTenantStatus(suite.ctx, root, suite.acme.ID, models.TenantStatusActive)
	suite.Require().NoError(err)
	_, err = suite.admin.UpdateTenantStatus(suite.ctx, root, suite.acme.ID, models.TenantStatusInactive)
	suite.Require().NoError(err)
	_, err = suite.admin.UpdateTenantStatus(suite.ctx, root, suite.acme.ID, models.TenantStatusActive)
	suite.ErrorIs(err, access.ErrValidation)

	_, err = suite.admin.UpdateTenantStatus(suite.ctx, root, suite.acme.ID, "deleted")
	suite.ErrorIs(err, ErrInvalidTenantStatus)
}

func (suite *ServiceTestSuite) TestAdminListings() {
	_, err := suite.admin.SystemStats(suite.ctx, callerOf(suite.acmeAdmin))
	suite.ErrorIs(err, access.ErrForbidden)

	stats, err := suite.admin.SystemStats(suite.ctx, callerOf(suite.root))
	suite.Require().NoError(err)
	suite.Equal(int64(2), stats.TotalTenants)
	suite.Equal(int64(3), stats.TotalUsers)

	_, total, err := suite.admin.ListUsers(suite.ctx, callerOf(suite.root), suite.acme.ID, repository.UserFilter{Pagination: utils.ParsePagination("", "")})
	suite.Require().NoError(err)
	suite.Equal(int64(2), total)

	_, total, err = suite.admin.ListTenants(suite.ctx, callerOf(suite.root), repository.TenantFilter{Pagination: utils.ParsePagination("", "")})
	suite.Require().NoError(err)
	suite.Equal(int64(2), total)

	_, _, err = suite.admin.ListTenants(suite.ctx, callerOf(suite.acmeMember), repository.TenantFilter{})
	suite.ErrorIs(err, access.ErrForbidden)
}

func (suite *ServiceTestSuite) TestAuditTrail() {
	_, err := suite.projects.CreateProject(suite.ctx, callerOf(suite.acmeMember), CreateProjectInput{Name: "P1"})
	suite.Require().NoError(err)
	suite.recorder.Flush()

	logs, total, err := suite.tenants.ListAuditLogs(suite.ctx, callerOf(suite.acmeAdmin), suite.acme.ID, utils.ParsePagination("", ""))
	suite.Require().NoError(err)
	suite.Equal(int64(1), total)
	suite.Equal(audit.ActionCreateProject, logs[0].Action)
	suite.Equal("127.0.0.1", logs[0].IPAddress)

	_, _, err = suite.tenants.ListAuditLogs(suite.ctx, callerOf(suite.acmeMember), suite.acme.ID, utils.ParsePagination("", ""))
	suite.ErrorIs(err, access.ErrForbidden)
}

func TestServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ServiceTestSuite))
}
