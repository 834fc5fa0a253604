package dto

// TimeLayout 响应中时间字段的统一格式
const TimeLayout = "2006-01-02T15:04:05.000Z07:00"

// ListResponse 列表响应 {success,count,data}
type ListResponse[T any] struct {
	Success bool `json:"success"`
	Count   int  `json:"count"`
	Data    []T  `json:"data"`
}

// DataResponse 单条数据响应 {success,data}
type DataResponse[T any] struct {
	Success bool `json:"success"`
	Data    T    `json:"data"`
}

// ErrorResponse 错误响应，Error 为字符串或字符串数组
type ErrorResponse struct {
	Success bool `json:"success"`
	Error   any  `json:"error"`
}
