package profile

type UpdateProfileReq struct {
	Department    *string `json:"department" validate:"omitempty,max=120"`
	DateOfBirth   *string `json:"date_of_birth" validate:"omitempty,datetime=2006-01-02"`
	ContactNumber *string `json:"contact_number" validate:"omitempty,max=32"`
}

type UpdatePictureReq struct {
	ProfilePicture string `json:"profile_picture" validate:"required,url"`
}
