package services

import "PumpPal/models"

type AuthAction string

const (
	ActionRegistered AuthAction = "registered"
	ActionLoggedIn   AuthAction = "logged in"
	ActionLoggedOut  AuthAction = "logged out"
)

var roleMessages = map[models.Role]map[AuthAction]string{
	models.RoleRegular: {
		ActionRegistered: "Welcome! Your account has been successfully created. 🎉",
		ActionLoggedIn:   "You are now logged in. Enjoy your experience! 👍",
		ActionLoggedOut:  "You have been logged out. See you soon! 👋",
	},
	models.RoleAdministrator: {
		ActionRegistered: "Welcome, administrator! You now have full access to the system. 🛠️",
		ActionLoggedIn:   "Administrator logged in successfully. 🔧",
		ActionLoggedOut:  "Administrator has been logged out. 👋",
	},
}

// RoleMessage returns the greeting shown after an auth action.
func RoleMessage(role models.Role, action AuthAction) string {
	if msg, ok := roleMessages[role][action]; ok {
		return msg
	}
	return "Action completed successfully."
}
