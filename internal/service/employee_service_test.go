package service_test

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"testing"

	"github.com/employee-api/internal/domain"
	"github.com/employee-api/internal/dto"
	"github.com/employee-api/internal/service"
	"github.com/employee-api/internal/testutil"
	"github.com/employee-api/internal/uow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func strPtr(s string) *string { return &s }

func int64Ptr(v int64) *int64 { return &v }

func setupService(t *testing.T) (service.EmployeeService, *gorm.DB) {
	t.Helper()

	db := testutil.NewSQLiteDB(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return service.NewEmployeeService(uow.NewFactory(db, sql.LevelDefault), logger), db
}

func aliceRequest() *dto.CreateEmployeeRequest {
	return &dto.CreateEmployeeRequest{
		Name:       "Alice",
		Surname:    "Smith",
		CompanyID:  int64Ptr(1),
		Passport:   &dto.CreatePassportRequest{Type: "Internal", Number: "AB123"},
		Department: &dto.CreateDepartmentRequest{Name: "IT", Phone: strPtr("555-0100")},
	}
}

func count(t *testing.T, db *gorm.DB, table string) int64 {
	t.Helper()

	var n int64
	require.NoError(t, db.Raw(`SELECT COUNT(*) FROM "` + table + `"`).Scan(&n).Error)
	return n
}

func getEmployee(t *testing.T, svc service.EmployeeService, companyID, id int64) dto.EmployeeResponse {
	t.Helper()

	employees, err := svc.GetByCompany(context.Background(), companyID)
	require.NoError(t, err)
	for _, e := range employees {
		if e.ID == id {
			return e
		}
	}
	t.Fatalf("employee %d not found in company %d", id, companyID)
	return dto.EmployeeResponse{}
}

func TestCreate_AliceScenario(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	resp, err := svc.Create(ctx, aliceRequest())
	require.NoError(t, err)
	require.NotZero(t, resp.ID)

	employees, err := svc.GetByCompany(ctx, 1)
	require.NoError(t, err)
	require.Len(t, employees, 1)

	e := employees[0]
	assert.Equal(t, resp.ID, e.ID)
	assert.Equal(t, "Alice", e.Name)
	assert.Equal(t, "Smith", e.Surname)
	assert.Nil(t, e.Phone)
	assert.Equal(t, int64(1), e.CompanyID)
	assert.Equal(t, dto.PassportResponse{Type: "Internal", Number: "AB123"}, e.Passport)
	assert.Equal(t, "IT", e.Department.Name)
	require.NotNil(t, e.Department.Phone)
	assert.Equal(t, "555-0100", *e.Department.Phone)
}

func TestCreate_FindOrCreateDepartment(t *testing.T) {
	svc, db := setupService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, aliceRequest())
	require.NoError(t, err)

	bob := aliceRequest()
	bob.Name = "Bob"
	bob.Passport.Number = "CD456"
	// телефон существующего отдела при создании не меняется
	bob.Department.Phone = strPtr("555-7777")
	_, err = svc.Create(ctx, bob)
	require.NoError(t, err)

	assert.Equal(t, int64(1), count(t, db, "Departments"))

	employees, err := svc.GetByDepartment(ctx, 1, "IT")
	require.NoError(t, err)
	require.Len(t, employees, 2)
	assert.Equal(t, "555-0100", *employees[0].Department.Phone)
	assert.Equal(t, "555-0100", *employees[1].Department.Phone)
}

func TestCreate_RollsBackOnFailure(t *testing.T) {
	svc, db := setupService(t)
	ctx := context.Background()

	require.NoError(t, db.Exec(`CREATE TRIGGER "fail_passport" BEFORE INSERT ON "Passports"
		BEGIN SELECT RAISE(ABORT, 'passport storage unavailable'); END`).Error)

	req := aliceRequest()
	req.Department.Name = "Sales"

	_, err := svc.Create(ctx, req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "passport storage unavailable")

	assert.Zero(t, count(t, db, "Departments"))
	assert.Zero(t, count(t, db, "Employees"))
	assert.Zero(t, count(t, db, "Passports"))
}

func TestCreate_CancelledContext(t *testing.T) {
	svc, db := setupService(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Create(ctx, aliceRequest())
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, count(t, db, "Employees"))
}

func TestUpdate_PartialPreservesUnsetFields(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	resp, err := svc.Create(ctx, aliceRequest())
	require.NoError(t, err)

	updated, err := svc.Update(ctx, resp.ID, &dto.UpdateEmployeeRequest{Phone: strPtr("555-1234")})
	require.NoError(t, err)
	assert.True(t, updated)

	e := getEmployee(t, svc, 1, resp.ID)
	require.NotNil(t, e.Phone)
	assert.Equal(t, "555-1234", *e.Phone)
	assert.Equal(t, "Alice", e.Name)
	assert.Equal(t, "Smith", e.Surname)
	assert.Equal(t, int64(1), e.CompanyID)
	assert.Equal(t, "IT", e.Department.Name)
	assert.Equal(t, dto.PassportResponse{Type: "Internal", Number: "AB123"}, e.Passport)
}

func TestUpdate_CompanyAndPassport(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	resp, err := svc.Create(ctx, aliceRequest())
	require.NoError(t, err)

	_, err = svc.Update(ctx, resp.ID, &dto.UpdateEmployeeRequest{
		Surname:   strPtr("Jones"),
		CompanyID: int64Ptr(2),
		Passport:  &dto.UpdatePassportRequest{Number: strPtr("ZZ999")},
	})
	require.NoError(t, err)

	employees, err := svc.GetByCompany(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, employees)

	e := getEmployee(t, svc, 2, resp.ID)
	assert.Equal(t, "Jones", e.Surname)
	assert.Equal(t, dto.PassportResponse{Type: "Internal", Number: "ZZ999"}, e.Passport)
}

func TestUpdate_DepartmentPhoneReconciliation(t *testing.T) {
	svc, db := setupService(t)
	ctx := context.Background()

	resp, err := svc.Create(ctx, aliceRequest())
	require.NoError(t, err)

	var before int64
	require.NoError(t, db.Raw(`SELECT "DepartmentId" FROM "Employees" WHERE "Id" = ?`, resp.ID).Scan(&before).Error)

	_, err = svc.Update(ctx, resp.ID, &dto.UpdateEmployeeRequest{
		Department: &dto.UpdateDepartmentRequest{Name: strPtr("IT"), Phone: strPtr("555-9999")},
	})
	require.NoError(t, err)

	var after int64
	require.NoError(t, db.Raw(`SELECT "DepartmentId" FROM "Employees" WHERE "Id" = ?`, resp.ID).Scan(&after).Error)
	assert.Equal(t, before, after)
	assert.Equal(t, int64(1), count(t, db, "Departments"))

	e := getEmployee(t, svc, 1, resp.ID)
	assert.Equal(t, "IT", e.Department.Name)
	assert.Equal(t, "555-9999", *e.Department.Phone)
}

func TestUpdate_DepartmentLookupByPhone(t *testing.T) {
	svc, db := setupService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, aliceRequest())
	require.NoError(t, err)

	bob := aliceRequest()
	bob.Name = "Bob"
	bob.Department = &dto.CreateDepartmentRequest{Name: "HR", Phone: strPtr("555-0200")}
	bobResp, err := svc.Create(ctx, bob)
	require.NoError(t, err)

	// только телефон: Боб переходит в IT
	_, err = svc.Update(ctx, bobResp.ID, &dto.UpdateEmployeeRequest{
		Department: &dto.UpdateDepartmentRequest{Phone: strPtr("555-0100")},
	})
	require.NoError(t, err)

	e := getEmployee(t, svc, 1, bobResp.ID)
	assert.Equal(t, "IT", e.Department.Name)

	// имя не найдено, телефон найден: отдел переименовывается
	_, err = svc.Update(ctx, bobResp.ID, &dto.UpdateEmployeeRequest{
		Department: &dto.UpdateDepartmentRequest{Name: strPtr("Engineering"), Phone: strPtr("555-0100")},
	})
	require.NoError(t, err)

	employees, err := svc.GetByDepartment(ctx, 1, "Engineering")
	require.NoError(t, err)
	assert.Len(t, employees, 2)
	assert.Equal(t, int64(2), count(t, db, "Departments"))
}

func TestUpdate_DepartmentCreatedWhenUnknown(t *testing.T) {
	svc, db := setupService(t)
	ctx := context.Background()

	resp, err := svc.Create(ctx, aliceRequest())
	require.NoError(t, err)

	_, err = svc.Update(ctx, resp.ID, &dto.UpdateEmployeeRequest{
		Department: &dto.UpdateDepartmentRequest{Name: strPtr("Legal")},
	})
	require.NoError(t, err)

	assert.Equal(t, int64(2), count(t, db, "Departments"))
	e := getEmployee(t, svc, 1, resp.ID)
	assert.Equal(t, "Legal", e.Department.Name)
	assert.Nil(t, e.Department.Phone)
}

func TestUpdate_NameLessDepartmentsCoexist(t *testing.T) {
	svc, db := setupService(t)
	ctx := context.Background()

	alice, err := svc.Create(ctx, aliceRequest())
	require.NoError(t, err)

	bobRequest := aliceRequest()
	bobRequest.Name = "Bob"
	bobRequest.Passport = &dto.CreatePassportRequest{Type: "Internal", Number: "CD456"}
	bob, err := svc.Create(ctx, bobRequest)
	require.NoError(t, err)

	// каждому сотруднику достаётся свой отдел без названия
	_, err = svc.Update(ctx, alice.ID, &dto.UpdateEmployeeRequest{
		Department: &dto.UpdateDepartmentRequest{Phone: strPtr("555-0300")},
	})
	require.NoError(t, err)

	_, err = svc.Update(ctx, bob.ID, &dto.UpdateEmployeeRequest{
		Department: &dto.UpdateDepartmentRequest{Phone: strPtr("555-0400")},
	})
	require.NoError(t, err)

	// повторное обновление того же сотрудника создаёт ещё один отдел
	_, err = svc.Update(ctx, alice.ID, &dto.UpdateEmployeeRequest{
		Department: &dto.UpdateDepartmentRequest{Phone: strPtr("555-0500")},
	})
	require.NoError(t, err)

	assert.Equal(t, int64(4), count(t, db, "Departments"))

	a := getEmployee(t, svc, 1, alice.ID)
	assert.Equal(t, "", a.Department.Name)
	assert.Equal(t, "555-0500", *a.Department.Phone)

	b := getEmployee(t, svc, 1, bob.ID)
	assert.Equal(t, "", b.Department.Name)
	assert.Equal(t, "555-0400", *b.Department.Phone)
}

func TestUpdate_NotFound(t *testing.T) {
	svc, db := setupService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, aliceRequest())
	require.NoError(t, err)

	_, err = svc.Update(ctx, 999, &dto.UpdateEmployeeRequest{
		Name:       strPtr("Ghost"),
		Department: &dto.UpdateDepartmentRequest{Name: strPtr("Nowhere")},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, err, domain.ErrEmployeeNotFound)
	assert.EqualError(t, err, "employee with id 999 not found")

	assert.Equal(t, int64(1), count(t, db, "Departments"))
	assert.Equal(t, int64(1), count(t, db, "Employees"))
}

func TestUpdate_MissingPassportIsIntegrityError(t *testing.T) {
	svc, db := setupService(t)
	ctx := context.Background()

	resp, err := svc.Create(ctx, aliceRequest())
	require.NoError(t, err)
	require.NoError(t, db.Exec(`DELETE FROM "Passports" WHERE "Id" = ?`, resp.ID).Error)

	_, err = svc.Update(ctx, resp.ID, &dto.UpdateEmployeeRequest{
		Name:       strPtr("Alicia"),
		Department: &dto.UpdateDepartmentRequest{Name: strPtr("Finance")},
		Passport:   &dto.UpdatePassportRequest{Type: strPtr("Foreign")},
	})

	var integrityErr *domain.IntegrityError
	require.ErrorAs(t, err, &integrityErr)
	assert.ErrorIs(t, err, domain.ErrDataIntegrity)
	assert.NotErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, resp.ID, integrityErr.ID)

	// имя и отдел откатились вместе с остальными шагами
	var name string
	require.NoError(t, db.Raw(`SELECT "Name" FROM "Employees" WHERE "Id" = ?`, resp.ID).Scan(&name).Error)
	assert.Equal(t, "Alice", name)
	assert.Equal(t, int64(1), count(t, db, "Departments"))
}

func TestDelete_RemovesEmployeeAndPassport(t *testing.T) {
	svc, db := setupService(t)
	ctx := context.Background()

	resp, err := svc.Create(ctx, aliceRequest())
	require.NoError(t, err)

	deleted, err := svc.Delete(ctx, resp.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	assert.Zero(t, count(t, db, "Employees"))
	assert.Zero(t, count(t, db, "Passports"))
	// отдел остаётся
	assert.Equal(t, int64(1), count(t, db, "Departments"))
}

func TestDelete_NotFound(t *testing.T) {
	svc, db := setupService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, aliceRequest())
	require.NoError(t, err)

	deleted, err := svc.Delete(ctx, 999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.False(t, deleted)
	assert.Equal(t, int64(1), count(t, db, "Employees"))
}

func TestGetByDepartment_CaseSensitive(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, aliceRequest())
	require.NoError(t, err)

	employees, err := svc.GetByDepartment(ctx, 1, "it")
	require.NoError(t, err)
	assert.Empty(t, employees)

	employees, err = svc.GetByDepartment(ctx, 2, "IT")
	require.NoError(t, err)
	assert.Empty(t, employees)

	employees, err = svc.GetByDepartment(ctx, 1, "IT")
	require.NoError(t, err)
	assert.Len(t, employees, 1)
}
