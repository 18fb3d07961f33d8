package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// 排班日类型常量
const (
	DayTypeLaboral   = "LABORAL"
	DayTypeAusente   = "AUSENTE"
	DayTypeLibre     = "LIBRE"
	DayTypeNoLaboral = "NO_LABORAL"
	DayTypeFeriado   = "FERIADO"
)

// IsValidDayType 检查日类型是否有效
func IsValidDayType(dayType string) bool {
	switch dayType {
	case DayTypeLaboral, DayTypeAusente, DayTypeLibre, DayTypeNoLaboral, DayTypeFeriado:
		return true
	default:
		return false
	}
}

// Employee 员工模型，租户隔离
type Employee struct {
	UUIDModel
	TenantID          uint             `json:"tenant_id" gorm:"not null;index"`
	FirstName         string           `json:"first_name" gorm:"not null;size:100"`
	LastName          string           `json:"last_name" gorm:"not null;size:100"`
	Email             *string          `json:"email" gorm:"size:200"`
	Phone             *string          `json:"phone" gorm:"size:100"`
	AvatarURL         *string          `json:"avatar_url" gorm:"size:255"`
	MonthlySalary     *decimal.Decimal `json:"monthly_salary" gorm:"type:decimal(18,4)"`
	DefaultShiftStart *string          `json:"default_shift_start" gorm:"size:5"`
	DefaultShiftEnd   *string          `json:"default_shift_end" gorm:"size:5"`
}

// TableName 表名
func (e *Employee) TableName() string {
	return "employees"
}

// EmployeeSchedule 员工某日排班记录，(tenant, employee, date) 唯一
type EmployeeSchedule struct {
	UUIDModel
	TenantID        uint      `json:"tenant_id" gorm:"not null;uniqueIndex:idx_tenant_employee_date"`
	EmployeeID      string    `json:"employee_id" gorm:"not null;size:36;uniqueIndex:idx_tenant_employee_date"`
	Date            time.Time `json:"date" gorm:"not null;uniqueIndex:idx_tenant_employee_date"`
	ClockIn         *string   `json:"clock_in" gorm:"size:5"`
	ClockOut        *string   `json:"clock_out" gorm:"size:5"`
	DayType         string    `json:"day_type" gorm:"not null;size:20;default:'LABORAL'"`
	OvertimeMinutes int       `json:"overtime_minutes" gorm:"not null;default:0"`
	Notes           *string   `json:"notes" gorm:"size:500"`

	// 关联
	Employee Employee          `json:"employee,omitempty" gorm:"foreignKey:EmployeeID;constraint:OnDelete:CASCADE"`
	Advances []EmployeeAdvance `json:"advances,omitempty" gorm:"foreignKey:ScheduleID;constraint:OnDelete:CASCADE"`
}

// TableName 表名
func (s *EmployeeSchedule) TableName() string {
	return "employee_schedules"
}

// EmployeeAdvance 现金预支，每个排班日最多关联一条
type EmployeeAdvance struct {
	UUIDModel
	TenantID   uint            `json:"tenant_id" gorm:"not null;index"`
	EmployeeID string          `json:"employee_id" gorm:"not null;size:36;index"`
	ScheduleID string          `json:"schedule_id" gorm:"not null;size:36;index"`
	Amount     decimal.Decimal `json:"amount" gorm:"type:decimal(18,4);not null"`
	Currency   string          `json:"currency" gorm:"not null;size:10;default:'PYG'"`
	Reason     *string         `json:"reason" gorm:"size:300"`
	IssuedAt   time.Time       `json:"issued_at" gorm:"not null"`
}

// TableName 表名
func (a *EmployeeAdvance) TableName() string {
	return "employee_advances"
}
