package handlers

import (
	"time"

	"kusystem/internal/middleware"
	"kusystem/internal/services"
	"kusystem/pkg/response"

	"github.com/gin-gonic/gin"
)

// HRHandler 人事排班处理器
type HRHandler struct {
	hrService *services.HRService
}

// NewHRHandler 创建人事处理器
func NewHRHandler(hrService *services.HRService) *HRHandler {
	return &HRHandler{hrService: hrService}
}

// ListEmployees 获取员工列表
// GET /api/v1/hr/employees?search=
func (h *HRHandler) ListEmployees(c *gin.Context) {
	tenantID := middleware.GetTenantID(c)

	employees, err := h.hrService.ListEmployees(tenantID, c.Query("search"))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Success(c, employees)
}

// GetEmployee 获取员工详情
// GET /api/v1/hr/employees/:id
func (h *HRHandler) GetEmployee(c *gin.Context) {
	tenantID := middleware.GetTenantID(c)

	employee, err := h.hrService.GetEmployee(tenantID, c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Success(c, employee)
}

// CreateEmployee 创建员工
// POST /api/v1/hr/employees
func (h *HRHandler) CreateEmployee(c *gin.Context) {
	tenantID := middleware.GetTenantID(c)

	var req services.EmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误: "+err.Error())
		return
	}

	employee, err := h.hrService.CreateEmployee(tenantID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Created(c, employee)
}

// UpdateEmployee 更新员工
// PUT /api/v1/hr/employees/:id
func (h *HRHandler) UpdateEmployee(c *gin.Context) {
	tenantID := middleware.GetTenantID(c)

	var req services.EmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误: "+err.Error())
		return
	}

	employee, err := h.hrService.UpdateEmployee(tenantID, c.Param("id"), &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Success(c, employee)
}

// DeleteEmployee 删除员工
// DELETE /api/v1/hr/employees/:id
func (h *HRHandler) DeleteEmployee(c *gin.Context) {
	tenantID := middleware.GetTenantID(c)

	if err := h.hrService.DeleteEmployee(tenantID, c.Param("id")); err != nil {
		handleServiceError(c, err)
		return
	}

	response.Success(c, nil)
}

// WeekCalendar 获取某周的排班日历
// GET /api/v1/hr/calendar?date=2026-08-24
func (h *HRHandler) WeekCalendar(c *gin.Context) {
	tenantID := middleware.GetTenantID(c)

	date := time.Now().UTC()
	if dateStr := c.Query("date"); dateStr != "" {
		parsed, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			response.BadRequest(c, "日期格式无效，应为YYYY-MM-DD")
			return
		}
		date = parsed
	}

	calendar, err := h.hrService.GetWeekCalendar(tenantID, date)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Success(c, calendar)
}

// UpsertSchedule 写入排班记录
// PUT /api/v1/hr/schedules
func (h *HRHandler) UpsertSchedule(c *gin.Context) {
	tenantID := middleware.GetTenantID(c)

	var req services.ScheduleUpsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误: "+err.Error())
		return
	}

	schedule, err := h.hrService.UpsertSchedule(tenantID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Success(c, schedule)
}

// DeleteSchedule 删除排班记录
// DELETE /api/v1/hr/schedules/:id
func (h *HRHandler) DeleteSchedule(c *gin.Context) {
	tenantID := middleware.GetTenantID(c)

	if err := h.hrService.DeleteSchedule(tenantID, c.Param("id")); err != nil {
		handleServiceError(c, err)
		return
	}

	response.Success(c, nil)
}
