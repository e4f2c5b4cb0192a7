package i18n

var messages = map[string]map[string]string{
	LocaleEN: {
		"error.bad_request":                 "Invalid request",
		"error.validation_failed":           "Validation failed",
		"error.unauthorized":                "Authentication required",
		"error.forbidden":                   "You do not have permission to perform this action",
		"error.not_found":                   "Resource not found",
		"error.internal_error":              "Internal server error",
		"error.too_many_requests":           "Too many requests, please try again later",
		"error.auth_header_missing":         "Authorization header is missing",
		"error.auth_header_invalid":         "Authorization header is invalid",
		"error.token_invalid":               "Token is invalid or expired",
		"error.jwt_secret_missing":          "Token verification is not configured",
		"error.user_disabled":               "User account is disabled",
		"error.captcha_required":            "Captcha is required",
		"error.captcha_invalid":             "Captcha is invalid",
		"error.captcha_config_invalid":      "Captcha is not configured",
		"error.order_not_found":             "Order not found",
		"error.order_access_denied":         "Access denied to this order",
		"error.order_status_invalid":        "Cannot transition from %s to %s",
		"error.order_cancel_not_allowed":    "Order cannot be cancelled at this stage",
		"error.order_items_required":        "Order must contain at least one item",
		"error.guest_info_required":         "Guest email, phone, and name are required",
		"error.track_contact_required":      "Email or phone is required for tracking",
		"error.product_not_found":           "Product not found",
		"error.product_unavailable":         "Product %s is not available",
		"error.variant_not_found":           "Product variant not found",
		"error.variant_unavailable":         "Selected variant is not available",
		"error.combo_selection_required":    "Combo selections are required for %s",
		"error.combo_item_invalid":          "Invalid combo item",
		"error.combo_selection_invalid":     "Invalid variant selected for combo item",
		"error.insufficient_stock":          "Insufficient stock for %s",
		"error.discount_not_found":          "Invalid discount code",
		"error.discount_not_started":        "Discount code is not yet active",
		"error.discount_expired":            "Discount code has expired",
		"error.discount_usage_limit":        "Discount code usage limit reached",
		"error.discount_per_user_limit":     "You have already used this discount code",
		"error.discount_min_order":          "Minimum order amount of %s required",
		"error.discount_not_applicable":     "Discount code does not apply to the items in your cart",
		"error.stock_quantity_invalid":      "Stock quantity is invalid",
		"error.stock_movement_type_invalid": "Stock movement type is invalid",
		"error.payment_method_invalid":      "Payment method is invalid",
		"error.status_invalid":              "Status is invalid",
		"error.conflict":                    "Request conflicts with the current state",
		"error.order_item_invalid":          "Order item is invalid",
		"error.rate_limited":                "Too many requests, please retry in %d seconds",
		"error.order_rate_limited":          "Too many orders submitted, please retry in %d seconds",
		"error.track_rate_limited":          "Too many lookups, please retry in %d seconds",
	},
	LocaleZH: {
		"error.bad_request":                 "请求参数错误",
		"error.validation_failed":           "参数校验失败",
		"error.unauthorized":                "请先登录",
		"error.forbidden":                   "无权执行该操作",
		"error.not_found":                   "资源不存在",
		"error.internal_error":              "服务器内部错误",
		"error.too_many_requests":           "请求过于频繁，请稍后再试",
		"error.auth_header_missing":         "缺少认证头",
		"error.auth_header_invalid":         "认证头格式错误",
		"error.token_invalid":               "令牌无效或已过期",
		"error.jwt_secret_missing":          "未配置令牌校验",
		"error.user_disabled":               "账号已被禁用",
		"error.captcha_required":            "请输入验证码",
		"error.captcha_invalid":             "验证码错误",
		"error.captcha_config_invalid":      "验证码未配置",
		"error.order_not_found":             "订单不存在",
		"error.order_access_denied":         "无权访问该订单",
		"error.order_status_invalid":        "订单状态不允许从 %s 变更为 %s",
		"error.order_cancel_not_allowed":    "当前阶段无法取消订单",
		"error.order_items_required":        "订单至少包含一个商品",
		"error.guest_info_required":         "游客下单需要填写邮箱、手机号和姓名",
		"error.track_contact_required":      "查询订单需要邮箱或手机号",
		"error.product_not_found":           "商品不存在",
		"error.product_unavailable":         "商品 %s 已下架",
		"error.variant_not_found":           "商品规格不存在",
		"error.variant_unavailable":         "所选规格不可用",
		"error.combo_selection_required":    "套餐 %s 需要选择组合项",
		"error.combo_item_invalid":          "套餐组合项无效",
		"error.combo_selection_invalid":     "套餐组合项规格无效",
		"error.insufficient_stock":          "%s 库存不足",
		"error.discount_not_found":          "优惠码无效",
		"error.discount_not_started":        "优惠码尚未生效",
		"error.discount_expired":            "优惠码已过期",
		"error.discount_usage_limit":        "优惠码使用次数已达上限",
		"error.discount_per_user_limit":     "您已使用过该优惠码",
		"error.discount_min_order":          "订单金额需满 %s",
		"error.discount_not_applicable":     "优惠码不适用于当前商品",
		"error.stock_quantity_invalid":      "库存数量无效",
		"error.stock_movement_type_invalid": "库存流水类型无效",
		"error.payment_method_invalid":      "支付方式无效",
		"error.status_invalid":              "状态无效",
		"error.conflict":                    "请求与当前状态冲突",
		"error.order_item_invalid":          "订单商品行无效",
		"error.rate_limited":                "请求过于频繁，请在 %d 秒后重试",
		"error.order_rate_limited":          "下单过于频繁，请在 %d 秒后重试",
		"error.track_rate_limited":          "查询过于频繁，请在 %d 秒后重试",
	},
	LocaleBN: {
		"error.bad_request":        "অবৈধ অনুরোধ",
		"error.unauthorized":       "লগইন প্রয়োজন",
		"error.forbidden":          "এই কাজের অনুমতি নেই",
		"error.internal_error":     "সার্ভারে সমস্যা হয়েছে",
		"error.order_not_found":    "অর্ডার পাওয়া যায়নি",
		"error.insufficient_stock": "%s এর পর্যাপ্ত স্টক নেই",
		"error.discount_not_found": "অবৈধ ডিসকাউন্ট কোড",
		"error.discount_expired":   "ডিসকাউন্ট কোডের মেয়াদ শেষ",
	},
}
