package client

// 客户端路由
const (
	RouteHome      = "/"
	RouteDashboard = "/dashboard"
)

var protectedRoutes = map[string]bool{
	RouteDashboard: true,
}

// Decision 路由守卫结果
// Allow 为 false 时应跳转到 Redirect，From 记录原目标以便登录后返回
type Decision struct {
	Allow    bool
	Redirect string
	From     string
}

// IsProtected 路由是否需要登录
func IsProtected(route string) bool {
	return protectedRoutes[route]
}

// Guard 未登录访问受保护路由时重定向到首页
func Guard(isAuthenticated bool, requested string) Decision {
	if !IsProtected(requested) || isAuthenticated {
		return Decision{Allow: true}
	}
	return Decision{Redirect: RouteHome, From: requested}
}
