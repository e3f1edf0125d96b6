package services

// Action names an operation in role-check messages.
type Action string

const (
	ActListChats   Action = "list chats"
	ActViewChat    Action = "view chats"
	ActCreateChat  Action = "create chats"
	ActUpdateChat  Action = "update chats"
	ActDeleteChat  Action = "delete chats"
	ActSendMessage Action = "create messages"
	ActListMessage Action = "list messages"
	ActViewMessage Action = "view messages"
	ActViewReply   Action = "view responses"

	ActListUsers  Action = "list users"
	ActViewUser   Action = "view user details"
	ActUpdateUser Action = "update users"
	ActUserStats  Action = "view user statistics"
)

// RequireRegular fails with a ForbiddenError unless caller is a regular user.
func RequireRegular(caller Caller, action Action) error {
	if !caller.IsRegular() {
		return &ForbiddenError{Message: "Forbidden. Only regular users can " + string(action) + "."}
	}
	return nil
}

// RequireAdministrator fails with a ForbiddenError unless caller is an
// administrator.
func RequireAdministrator(caller Caller, action Action) error {
	if !caller.IsAdministrator() {
		return &ForbiddenError{Message: "Forbidden. Only administrators can " + string(action) + "."}
	}
	return nil
}
