package handlers

import (
	"kusystem/internal/middleware"
	"kusystem/internal/services"
	"kusystem/pkg/pagination"
	"kusystem/pkg/response"

	"github.com/gin-gonic/gin"
)

// ProductHandler 商品处理器
type ProductHandler struct {
	productService *services.ProductService
}

// NewProductHandler 创建商品处理器
func NewProductHandler(productService *services.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// List 获取商品列表
// GET /api/v1/products?page=1&pageSize=20&search=
func (h *ProductHandler) List(c *gin.Context) {
	tenantID := middleware.GetTenantID(c)
	params := pagination.ParsePageParams(c)

	products, pageInfo, err := h.productService.List(tenantID, params.Page, params.PageSize, c.Query("search"))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SuccessWithPage(c, products, pageInfo)
}

// Get 获取商品详情
// GET /api/v1/products/:id
func (h *ProductHandler) Get(c *gin.Context) {
	tenantID := middleware.GetTenantID(c)

	product, err := h.productService.GetByID(tenantID, c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Success(c, product)
}

// Create 创建商品
// POST /api/v1/products
func (h *ProductHandler) Create(c *gin.Context) {
	tenantID := middleware.GetTenantID(c)

	var req services.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误: "+err.Error())
		return
	}

	product, err := h.productService.Create(tenantID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Created(c, product)
}

// Update 更新商品
// PUT /api/v1/products/:id
func (h *ProductHandler) Update(c *gin.Context) {
	tenantID := middleware.GetTenantID(c)

	var req services.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误: "+err.Error())
		return
	}

	product, err := h.productService.Update(tenantID, c.Param("id"), &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Success(c, product)
}

// Delete 删除商品
// DELETE /api/v1/products/:id
func (h *ProductHandler) Delete(c *gin.Context) {
	tenantID := middleware.GetTenantID(c)

	if err := h.productService.Delete(tenantID, c.Param("id")); err != nil {
		handleServiceError(c, err)
		return
	}

	response.Success(c, nil)
}

// GetGeneric 获取租户的通用商品，不存在时自动创建
// POST /api/v1/products/generic
func (h *ProductHandler) GetGeneric(c *gin.Context) {
	tenantID := middleware.GetTenantID(c)

	product, err := h.productService.GetOrCreateGeneric(tenantID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Success(c, product)
}

// ListTemplates 获取商品模板列表
// GET /api/v1/product-templates
func (h *ProductHandler) ListTemplates(c *gin.Context) {
	tenantID := middleware.GetTenantID(c)

	templates, err := h.productService.ListTemplates(tenantID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Success(c, templates)
}

// CreateTemplate 创建商品模板
// POST /api/v1/product-templates
func (h *ProductHandler) CreateTemplate(c *gin.Context) {
	tenantID := middleware.GetTenantID(c)

	var req services.TemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误: "+err.Error())
		return
	}

	template, err := h.productService.CreateTemplate(tenantID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Created(c, template)
}

// UpdateTemplate 更新商品模板
// PUT /api/v1/product-templates/:id
func (h *ProductHandler) UpdateTemplate(c *gin.Context) {
	tenantID := middleware.GetTenantID(c)

	var req services.TemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误: "+err.Error())
		return
	}

	template, err := h.productService.UpdateTemplate(tenantID, c.Param("id"), &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Success(c, template)
}

// DeleteTemplate 删除商品模板
// DELETE /api/v1/product-templates/:id
func (h *ProductHandler) DeleteTemplate(c *gin.Context) {
	tenantID := middleware.GetTenantID(c)

	if err := h.productService.DeleteTemplate(tenantID, c.Param("id")); err != nil {
		handleServiceError(c, err)
		return
	}

	response.Success(c, nil)
}
