package services

import (
	"errors"
	"math"
	"time"

	"kusystem/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// HRService 人事排班服务
type HRService struct {
	db *gorm.DB
}

// NewHRService 创建人事服务
func NewHRService(db *gorm.DB) *HRService {
	return &HRService{db: db}
}

// EmployeeRequest 员工入参
type EmployeeRequest struct {
	FirstName         string           `json:"first_name" binding:"required,max=100"`
	LastName          string           `json:"last_name" binding:"required,max=100"`
	Email             *string          `json:"email" binding:"omitempty,email,max=200"`
	Phone             *string          `json:"phone" binding:"omitempty,max=100"`
	AvatarURL         *string          `json:"avatar_url" binding:"omitempty,max=255"`
	MonthlySalary     *decimal.Decimal `json:"monthly_salary"`
	DefaultShiftStart *string          `json:"default_shift_start" binding:"omitempty,len=5"`
	DefaultShiftEnd   *string          `json:"default_shift_end" binding:"omitempty,len=5"`
}

// ScheduleUpsertRequest 排班写入请求。同一 (员工, 日期) 幂等覆盖。
// Advance 提供时记录当日预支，每个排班日最多一条，再次提交则覆盖。
type ScheduleUpsertRequest struct {
	EmployeeID      string          `json:"employee_id" binding:"required"`
	Date            time.Time       `json:"date" binding:"required"`
	ClockIn         *string         `json:"clock_in" binding:"omitempty,len=5"`
	ClockOut        *string         `json:"clock_out" binding:"omitempty,len=5"`
	DayType         string          `json:"day_type"`
	OvertimeMinutes int             `json:"overtime_minutes"`
	Notes           *string         `json:"notes" binding:"omitempty,max=500"`
	Advance         *AdvanceRequest `json:"advance"`
}

// AdvanceRequest 现金预支入参
type AdvanceRequest struct {
	Amount   decimal.Decimal `json:"amount" binding:"required"`
	Currency string          `json:"currency" binding:"omitempty,max=10"`
	Reason   *string         `json:"reason" binding:"omitempty,max=300"`
}

// WeekDay 周视图中的一天
type WeekDay struct {
	Date     time.Time                `json:"date"`
	Schedule *models.EmployeeSchedule `json:"schedule"`
}

// EmployeeWeek 单个员工的一周排班及汇总
type EmployeeWeek struct {
	Employee        models.Employee `json:"employee"`
	Days            []WeekDay       `json:"days"`
	WorkedDays      int             `json:"worked_days"`
	AbsentDays      int             `json:"absent_days"`
	OvertimeMinutes int             `json:"overtime_minutes"`
	OvertimeHours   float64         `json:"overtime_hours"`
	AdvanceCount    int             `json:"advance_count"`
	AdvancesTotal   decimal.Decimal `json:"advances_total"`
}

// WeekCalendar 周日历
type WeekCalendar struct {
	WeekStart time.Time      `json:"week_start"`
	WeekEnd   time.Time      `json:"week_end"`
	Employees []EmployeeWeek `json:"employees"`
}

// ListEmployees 查询员工列表
func (s *HRService) ListEmployees(tenantID uint, search string) ([]models.Employee, error) {
	query := s.db.Where("tenant_id = ?", tenantID)
	if search != "" {
		query = applySearch(query, search, "first_name", "last_name", "email")
	}

	var employees []models.Employee
	err := query.Order("last_name ASC, first_name ASC").Find(&employees).Error
	if err != nil {
		return nil, err
	}
	return employees, nil
}

// GetEmployee 获取员工详情
func (s *HRService) GetEmployee(tenantID uint, id string) (*models.Employee, error) {
	var employee models.Employee
	err := s.db.Where("tenant_id = ? AND id = ?", tenantID, id).First(&employee).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &employee, nil
}

// CreateEmployee 创建员工
func (s *HRService) CreateEmployee(tenantID uint, req *EmployeeRequest) (*models.Employee, error) {
	employee := models.Employee{
		TenantID:          tenantID,
		FirstName:         req.FirstName,
		LastName:          req.LastName,
		Email:             req.Email,
		Phone:             req.Phone,
		AvatarURL:         req.AvatarURL,
		MonthlySalary:     req.MonthlySalary,
		DefaultShiftStart: req.DefaultShiftStart,
		DefaultShiftEnd:   req.DefaultShiftEnd,
	}
	if err := s.db.Create(&employee).Error; err != nil {
		return nil, err
	}
	return &employee, nil
}

// UpdateEmployee 更新员工
func (s *HRService) UpdateEmployee(tenantID uint, id string, req *EmployeeRequest) (*models.Employee, error) {
	employee, err := s.GetEmployee(tenantID, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"first_name":          req.FirstName,
		"last_name":           req.LastName,
		"email":               req.Email,
		"phone":               req.Phone,
		"avatar_url":          req.AvatarURL,
		"monthly_salary":      req.MonthlySalary,
		"default_shift_start": req.DefaultShiftStart,
		"default_shift_end":   req.DefaultShiftEnd,
	}
	if err := s.db.Model(employee).Updates(updates).Error; err != nil {
		return nil, err
	}
	return employee, nil
}

// DeleteEmployee 删除员工，排班记录级联删除
func (s *HRService) DeleteEmployee(tenantID uint, id string) error {
	result := s.db.Where("tenant_id = ? AND id = ?", tenantID, id).Delete(&models.Employee{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// WeekStart 归一化到所在周的周一零点（UTC日期语义）
func WeekStart(date time.Time) time.Time {
	d := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	weekday := int(d.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	return d.AddDate(0, 0, -(weekday - 1))
}

// GetWeekCalendar 构建某周的排班日历：每个员工周一到周日各一格，
// 未排班的日期schedule为空，并按周汇总出勤、缺勤、加班与预支。
func (s *HRService) GetWeekCalendar(tenantID uint, anyDate time.Time) (*WeekCalendar, error) {
	start := WeekStart(anyDate)
	end := start.AddDate(0, 0, 7)

	employees, err := s.ListEmployees(tenantID, "")
	if err != nil {
		return nil, err
	}

	var schedules []models.EmployeeSchedule
	err = s.db.Where("tenant_id = ? AND date >= ? AND date < ?", tenantID, start, end).
		Preload("Advances").
		Find(&schedules).Error
	if err != nil {
		return nil, err
	}

	type dayKey struct {
		employeeID string
		day        string
	}
	byKey := make(map[dayKey]*models.EmployeeSchedule, len(schedules))
	for i := range schedules {
		sc := &schedules[i]
		byKey[dayKey{sc.EmployeeID, sc.Date.Format("2006-01-02")}] = sc
	}

	calendar := &WeekCalendar{
		WeekStart: start,
		WeekEnd:   start.AddDate(0, 0, 6),
		Employees: make([]EmployeeWeek, 0, len(employees)),
	}

	for _, emp := range employees {
		week := EmployeeWeek{
			Employee:      emp,
			Days:          make([]WeekDay, 0, 7),
			AdvancesTotal: decimal.Zero,
		}
		for i := 0; i < 7; i++ {
			day := start.AddDate(0, 0, i)
			sc := byKey[dayKey{emp.ID, day.Format("2006-01-02")}]
			week.Days = append(week.Days, WeekDay{Date: day, Schedule: sc})
			if sc == nil {
				continue
			}
			switch sc.DayType {
			case models.DayTypeLaboral:
				week.WorkedDays++
			case models.DayTypeAusente:
				week.AbsentDays++
			}
			week.OvertimeMinutes += sc.OvertimeMinutes
			for _, adv := range sc.Advances {
				week.AdvanceCount++
				week.AdvancesTotal = week.AdvancesTotal.Add(adv.Amount)
			}
		}
		// 加班以小时呈现，保留一位小数
		week.OvertimeHours = math.Round(float64(week.OvertimeMinutes)/60*10) / 10
		calendar.Employees = append(calendar.Employees, week)
	}
	return calendar, nil
}

// UpsertSchedule 写入某员工某日的排班。记录按 (租户, 员工, 日期) 唯一，
// 已存在则覆盖字段。附带预支时同事务写入，每个排班日至多保留一条预支。
func (s *HRService) UpsertSchedule(tenantID uint, req *ScheduleUpsertRequest) (*models.EmployeeSchedule, error) {
	dayType := req.DayType
	if dayType == "" {
		dayType = models.DayTypeLaboral
	}
	if !models.IsValidDayType(dayType) {
		return nil, ErrInvalidDayType
	}

	if _, err := s.GetEmployee(tenantID, req.EmployeeID); err != nil {
		return nil, err
	}

	day := time.Date(req.Date.Year(), req.Date.Month(), req.Date.Day(), 0, 0, 0, 0, time.UTC)

	var schedule models.EmployeeSchedule
	err := s.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("tenant_id = ? AND employee_id = ? AND date = ?", tenantID, req.EmployeeID, day).
			First(&schedule).Error
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			schedule = models.EmployeeSchedule{
				TenantID:        tenantID,
				EmployeeID:      req.EmployeeID,
				Date:            day,
				ClockIn:         req.ClockIn,
				ClockOut:        req.ClockOut,
				DayType:         dayType,
				OvertimeMinutes: req.OvertimeMinutes,
				Notes:           req.Notes,
			}
			if err := tx.Create(&schedule).Error; err != nil {
				return err
			}
		} else {
			updates := map[string]interface{}{
				"clock_in":         req.ClockIn,
				"clock_out":        req.ClockOut,
				"day_type":         dayType,
				"overtime_minutes": req.OvertimeMinutes,
				"notes":            req.Notes,
			}
			if err := tx.Model(&schedule).Updates(updates).Error; err != nil {
				return err
			}
		}

		if req.Advance != nil {
			if err := tx.Where("schedule_id = ?", schedule.ID).
				Delete(&models.EmployeeAdvance{}).Error; err != nil {
				return err
			}
			currency := req.Advance.Currency
			if currency == "" {
				currency = "PYG"
			}
			advance := models.EmployeeAdvance{
				TenantID:   tenantID,
				EmployeeID: req.EmployeeID,
				ScheduleID: schedule.ID,
				Amount:     req.Advance.Amount,
				Currency:   currency,
				Reason:     req.Advance.Reason,
				IssuedAt:   day,
			}
			if err := tx.Create(&advance).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = s.db.Where("id = ?", schedule.ID).Preload("Advances").First(&schedule).Error
	if err != nil {
		return nil, err
	}
	return &schedule, nil
}

// DeleteSchedule 删除排班记录，预支级联删除
func (s *HRService) DeleteSchedule(tenantID uint, id string) error {
	result := s.db.Where("tenant_id = ? AND id = ?", tenantID, id).Delete(&models.EmployeeSchedule{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
