package dto

import userDto "anoa.com/alumninetwork/internal/modules/user/dto"

type PendingUsersResponse struct {
	Data  []userDto.UserResponse `json:"data"`
	Total int                    `json:"total"`
}

type ActivationResponse struct {
	Message string               `json:"message"`
	User    userDto.UserResponse `json:"user"`
}
