// Package dto
package dto

type AdminDTO struct {
	ID        uint   `json:"id" example:"1"`
	UUID      string `json:"uuid" example:"f47ac10b-58cc-4372-a567-0e02b2c3d479"`
	Username  string `json:"username" example:"admin"`
	IsActive  *bool  `json:"is_active" example:"true"`
	CreatedAt string `json:"created_at" example:"2024-01-15T10:30:00Z"`
}

type AdminSessionDTO struct {
	AccessToken  string `json:"access_token" example:"jwt"`
	RefreshToken string `json:"refresh_token" example:"jwt"`
	ExpiresIn    int    `json:"expires_in" example:"3600"`
	TokenType    string `json:"token_type" example:"Bearer"`
	CreatedAt    string `json:"created_at" example:"2024-01-15T10:30:00Z"`
}

type AdminCaptchaInitResponse struct {
	ChallengeID       string `json:"challenge_id"`
	MasterImageBase64 string `json:"master_image_base64"`
	ThumbImageBase64  string `json:"thumb_image_base64"`
}

type AdminCaptchaVerifyRequest struct {
	ChallengeID string  `json:"challenge_id" validate:"required"`
	Username    string  `json:"username" validate:"required,min=3,max=255"`
	Password    string  `json:"password" validate:"required,min=8,max=100"`
	UserAngle   float64 `json:"user_angle" validate:"required"`
}

type AdminLoginResponse struct {
	Admin   AdminDTO        `json:"admin"`
	Session AdminSessionDTO `json:"session"`
}

// Admin order listing with optional filters
type AdminListOrdersRequest struct {
	Page        int     `json:"page" query:"page" validate:"omitempty,gte=1"`
	PageSize    int     `json:"page_size" query:"page_size" validate:"omitempty,gte=1,lte=100"`
	Status      *string `json:"status,omitempty" query:"status" validate:"omitempty,oneof=pending confirmed shipped delivered canceled"`
	Phone       *string `json:"phone,omitempty" query:"phone" validate:"omitempty"`
	OrderNumber *string `json:"order_number,omitempty" query:"order_number" validate:"omitempty,max=20"`
	StartDate   *string `json:"start_date,omitempty" query:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate     *string `json:"end_date,omitempty" query:"end_date" validate:"omitempty,datetime=2006-01-02"`
}

type AdminListOrdersResponse struct {
	Orders   []AdminOrderDTO `json:"orders"`
	Total    int64           `json:"total"`
	Page     int             `json:"page"`
	PageSize int             `json:"page_size"`
}

// AdminOrderDTO extends the customer view with buyer identity
type AdminOrderDTO struct {
	OrderDTO
	CustomerPhone string `json:"customer_phone"`
	CustomerName  string `json:"customer_name"`
}

type AdminUpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=confirmed shipped delivered canceled"`
}

// Admin order stats over a date range [start, end]
type AdminOrderStatsRequest struct {
	StartDate string `json:"start_date" query:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string `json:"end_date" query:"end_date" validate:"required,datetime=2006-01-02"`
}

type AdminOrderDailyStatDTO struct {
	Day       string `json:"day"`
	Count     int64  `json:"count"`
	Revenue   uint64 `json:"revenue"` // Toman
	Canceled  int64  `json:"canceled"`
	Delivered int64  `json:"delivered"`
}

type AdminOrderStatsResponse struct {
	Days          []AdminOrderDailyStatDTO `json:"days"`
	TotalOrders   int64                    `json:"total_orders"`
	TotalRevenue  uint64                   `json:"total_revenue"`
	TotalCanceled int64                    `json:"total_canceled"`
}
