package models

// All lists every persisted model in migration order.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Post{},
		&JobDetails{},
		&InternshipDetails{},
		&Comment{},
		&Like{},
		&CommentLike{},
		&Connection{},
		&Message{},
		&Application{},
		&Notification{},
	}
}
