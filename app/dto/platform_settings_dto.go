package dto

// UpdatePlatformSettingsRequest represents payload for updating shop settings.
type UpdatePlatformSettingsRequest struct {
	ShopName        string `json:"shop_name" validate:"required,max=120"`
	OrderingEnabled *bool  `json:"ordering_enabled" validate:"required"`
	MinOrderAmount  uint64 `json:"min_order_amount" validate:"gte=0"`
	DeliveryFee     uint64 `json:"delivery_fee" validate:"gte=0"`
	SupportPhone    string `json:"support_phone" validate:"omitempty,max=20"`
}

// PlatformSettingsDTO represents the shop settings row.
type PlatformSettingsDTO struct {
	ShopName        string `json:"shop_name"`
	OrderingEnabled *bool  `json:"ordering_enabled"`
	MinOrderAmount  uint64 `json:"min_order_amount"` // Toman
	DeliveryFee     uint64 `json:"delivery_fee"`     // Toman
	SupportPhone    string `json:"support_phone"`
	UpdatedAt       string `json:"updated_at"`
}

// PlatformSettingsResponse wraps the settings row with a message.
type PlatformSettingsResponse struct {
	Message  string              `json:"message"`
	Settings PlatformSettingsDTO `json:"settings"`
}
