package services

import (
	"testing"
	"time"

	"kusystem/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func createTestEmployee(t *testing.T, db *gorm.DB, tenantID uint, first, last string) *models.Employee {
	t.Helper()
	service := NewHRService(db)
	employee, err := service.CreateEmployee(tenantID, &EmployeeRequest{
		FirstName: first,
		LastName:  last,
	})
	require.NoError(t, err)
	return employee
}

func TestWeekStart(t *testing.T) {
	// 2026-08-26 是周三，所在周从周一 2026-08-24 开始
	wednesday := time.Date(2026, 8, 26, 15, 30, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC), WeekStart(wednesday))

	// 周日归入同一周
	sunday := time.Date(2026, 8, 30, 1, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC), WeekStart(sunday))

	monday := time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, monday, WeekStart(monday))
}

func TestUpsertScheduleIdempotent(t *testing.T) {
	db := setupTestDB(t)
	tenant := createTestTenant(t, db, "ACME")
	employee := createTestEmployee(t, db, tenant.ID, "Ana", "Gómez")
	service := NewHRService(db)

	date := time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)

	first, err := service.UpsertSchedule(tenant.ID, &ScheduleUpsertRequest{
		EmployeeID: employee.ID,
		Date:       date,
		ClockIn:    strPtr("08:00"),
		ClockOut:   strPtr("17:00"),
	})
	require.NoError(t, err)
	assert.Equal(t, models.DayTypeLaboral, first.DayType)

	// 同一 (员工, 日期) 再次写入覆盖而不是新增
	second, err := service.UpsertSchedule(tenant.ID, &ScheduleUpsertRequest{
		EmployeeID:      employee.ID,
		Date:            date,
		DayType:         models.DayTypeAusente,
		OvertimeMinutes: 0,
	})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, models.DayTypeAusente, second.DayType)

	var count int64
	require.NoError(t, db.Model(&models.EmployeeSchedule{}).
		Where("employee_id = ?", employee.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestUpsertScheduleSingleAdvance(t *testing.T) {
	db := setupTestDB(t)
	tenant := createTestTenant(t, db, "ACME")
	employee := createTestEmployee(t, db, tenant.ID, "Ana", "Gómez")
	service := NewHRService(db)

	date := time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)

	schedule, err := service.UpsertSchedule(tenant.ID, &ScheduleUpsertRequest{
		EmployeeID: employee.ID,
		Date:       date,
		Advance:    &AdvanceRequest{Amount: dec("100000")},
	})
	require.NoError(t, err)
	require.Len(t, schedule.Advances, 1)
	assert.Equal(t, "PYG", schedule.Advances[0].Currency)

	// 再次提交预支覆盖旧记录，每个排班日至多一条
	schedule, err = service.UpsertSchedule(tenant.ID, &ScheduleUpsertRequest{
		EmployeeID: employee.ID,
		Date:       date,
		Advance:    &AdvanceRequest{Amount: dec("250000"), Currency: "USD"},
	})
	require.NoError(t, err)
	require.Len(t, schedule.Advances, 1)
	assert.True(t, schedule.Advances[0].Amount.Equal(dec("250000")))
	assert.Equal(t, "USD", schedule.Advances[0].Currency)
}

func TestUpsertScheduleInvalidDayType(t *testing.T) {
	db := setupTestDB(t)
	tenant := createTestTenant(t, db, "ACME")
	employee := createTestEmployee(t, db, tenant.ID, "Ana", "Gómez")
	service := NewHRService(db)

	_, err := service.UpsertSchedule(tenant.ID, &ScheduleUpsertRequest{
		EmployeeID: employee.ID,
		Date:       time.Now(),
		DayType:    "SIESTA",
	})
	assert.ErrorIs(t, err, ErrInvalidDayType)
}

func TestWeekCalendarMetrics(t *testing.T) {
	db := setupTestDB(t)
	tenant := createTestTenant(t, db, "ACME")
	employee := createTestEmployee(t, db, tenant.ID, "Ana", "Gómez")
	service := NewHRService(db)

	monday := time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)

	_, err := service.UpsertSchedule(tenant.ID, &ScheduleUpsertRequest{
		EmployeeID:      employee.ID,
		Date:            monday,
		OvertimeMinutes: 30,
		Advance:         &AdvanceRequest{Amount: dec("50000")},
	})
	require.NoError(t, err)

	_, err = service.UpsertSchedule(tenant.ID, &ScheduleUpsertRequest{
		EmployeeID: employee.ID,
		Date:       monday.AddDate(0, 0, 1),
		DayType:    models.DayTypeAusente,
	})
	require.NoError(t, err)

	calendar, err := service.GetWeekCalendar(tenant.ID, monday.AddDate(0, 0, 3))
	require.NoError(t, err)
	assert.Equal(t, monday, calendar.WeekStart)
	require.Len(t, calendar.Employees, 1)

	week := calendar.Employees[0]
	require.Len(t, week.Days, 7)
	assert.NotNil(t, week.Days[0].Schedule)
	assert.NotNil(t, week.Days[1].Schedule)
	assert.Nil(t, week.Days[2].Schedule)
	assert.Equal(t, 1, week.WorkedDays)
	assert.Equal(t, 1, week.AbsentDays)
	assert.Equal(t, 30, week.OvertimeMinutes)
	assert.True(t, week.AdvancesTotal.Equal(dec("50000")))
}

func TestWeekCalendarTenantScoped(t *testing.T) {
	db := setupTestDB(t)
	tenantA := createTestTenant(t, db, "Alpha")
	tenantB := createTestTenant(t, db, "Beta")
	createTestEmployee(t, db, tenantA.ID, "Ana", "Gómez")
	service := NewHRService(db)

	calendar, err := service.GetWeekCalendar(tenantB.ID, time.Now())
	require.NoError(t, err)
	assert.Empty(t, calendar.Employees)
}
