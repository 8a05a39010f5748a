package handler

var (
	HealthHandlerInstance    IHealthHandler
	AuthHandlerInstance      IAuthHandler
	ScreenHandlerInstance    IScreenHandler
	MenuHandlerInstance      IMenuHandler
	UserMenuHandlerInstance  IUserMenuHandler
	CodeHandlerInstance      ICodeHandler
	ComponentHandlerInstance IComponentHandler
)

func init() {
	HealthHandlerInstance = &HealthHandler{}
	AuthHandlerInstance = &AuthHandler{}
	ScreenHandlerInstance = &ScreenHandler{}
	MenuHandlerInstance = &MenuHandler{}
	UserMenuHandlerInstance = &UserMenuHandler{}
	CodeHandlerInstance = &CodeHandler{}
	ComponentHandlerInstance = &ComponentHandler{}
}
