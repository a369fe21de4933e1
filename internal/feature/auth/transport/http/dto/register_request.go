package dto

// RegisterReq represents the request body for the /register endpoint.
// Field rules (email format, lengths, role/profileType pairing) are enforced by the usecase
// so that every client gets the same validation messages.
type RegisterReq struct {
	Email       string  `json:"email" binding:"required"`
	Password    string  `json:"password" binding:"required"`
	Name        string  `json:"name" binding:"required"`
	Role        string  `json:"role" binding:"required,oneof=STUDENT INSTRUCTOR"`
	ProfileType *string `json:"profileType"`
}
