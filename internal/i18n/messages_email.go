package i18n

var emailMessages = map[string]map[string]string{
	LocaleEN: {
		"order.status.pending":                "Pending",
		"order.status.confirmed":              "Confirmed",
		"order.status.processing":             "Processing",
		"order.status.shipped":                "Shipped",
		"order.status.out_for_delivery":       "Out for delivery",
		"order.status.delivered":              "Delivered",
		"order.status.cancelled":              "Cancelled",
		"order.status.refunded":               "Refunded",
		"email.order_confirmation.subject":    "Order %s received",
		"email.order_confirmation.body":       "Hi %s,\n\nThank you for your order.\n\nOrder No: %s\nTotal: %s %s\nPayment method: %s\nEstimated delivery: %s",
		"email.order_confirmation.track_link": "Track your order: %s",
		"email.admin_new_order.subject":       "New order %s",
		"email.admin_new_order.body":          "A new order was placed.\n\nOrder No: %s\nCustomer: %s\nItems: %d\nTotal: %s %s\nPayment method: %s",
		"email.admin_new_order.link":          "Open in admin: %s",
		"email.order_status.subject":          "Order status updated: %s",
		"email.order_status.body":             "Order No: %s\nCurrent status: %s\nTotal: %s %s",
		"email.order_status.body_cancelled":   "Order No: %s\nCurrent status: %s\nTotal: %s %s\n\nThe order has been cancelled and reserved items were released.",
		"email.order_status.body_delivered":   "Order No: %s\nCurrent status: %s\nTotal: %s %s\n\nYour order has been delivered. Thank you for shopping with us.",
		"email.order_status.note":             "Note: %s",
		"email.low_stock.subject":             "Low stock: %s",
		"email.low_stock.body":                "Product: %s\nSKU: %s\nStock: %d (threshold %d)",
	},
	LocaleZH: {
		"order.status.pending":                "待确认",
		"order.status.confirmed":              "已确认",
		"order.status.processing":             "处理中",
		"order.status.shipped":                "已发货",
		"order.status.out_for_delivery":       "派送中",
		"order.status.delivered":              "已送达",
		"order.status.cancelled":              "已取消",
		"order.status.refunded":               "已退款",
		"email.order_confirmation.subject":    "已收到订单 %s",
		"email.order_confirmation.body":       "%s，您好：\n\n感谢您的下单。\n\n订单号：%s\n金额：%s %s\n支付方式：%s\n预计送达：%s",
		"email.order_confirmation.track_link": "查询订单：%s",
		"email.admin_new_order.subject":       "新订单 %s",
		"email.admin_new_order.body":          "收到新订单。\n\n订单号：%s\n客户：%s\n商品行数：%d\n金额：%s %s\n支付方式：%s",
		"email.admin_new_order.link":          "后台查看：%s",
		"email.order_status.subject":          "订单状态更新：%s",
		"email.order_status.body":             "订单号：%s\n当前状态：%s\n金额：%s %s",
		"email.order_status.body_cancelled":   "订单号：%s\n当前状态：%s\n金额：%s %s\n\n订单已取消，预留的商品已释放。",
		"email.order_status.body_delivered":   "订单号：%s\n当前状态：%s\n金额：%s %s\n\n订单已送达，感谢您的支持。",
		"email.order_status.note":             "备注：%s",
		"email.low_stock.subject":             "低库存提醒：%s",
		"email.low_stock.body":                "商品：%s\nSKU：%s\n当前库存：%d（阈值 %d）",
	},
	LocaleBN: {
		"order.status.pending":          "অপেক্ষমাণ",
		"order.status.confirmed":        "নিশ্চিত",
		"order.status.processing":       "প্রক্রিয়াধীন",
		"order.status.shipped":          "পাঠানো হয়েছে",
		"order.status.out_for_delivery": "ডেলিভারির পথে",
		"order.status.delivered":        "ডেলিভারি সম্পন্ন",
		"order.status.cancelled":        "বাতিল",
		"order.status.refunded":         "ফেরত",
	},
}

func init() {
	for locale, entries := range emailMessages {
		target, ok := messages[locale]
		if !ok {
			target = make(map[string]string, len(entries))
			messages[locale] = target
		}
		for key, value := range entries {
			target[key] = value
		}
	}
}
