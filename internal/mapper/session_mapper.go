package mapper

import (
	"aquatech-web/internal/dto"
	"aquatech-web/internal/entity"
	"aquatech-web/internal/sessiongate"
)

func ToSessionUserDTO(u *entity.SessionUser) *dto.SessionUserDTO {
	if u == nil {
		return nil
	}
	return &dto.SessionUserDTO{
		Id:        u.ID,
		Email:     u.Email,
		FullName:  u.FullName,
		AvatarURL: u.AvatarURL,
		Provider:  u.Provider,
	}
}

func ToSessionResponse(snap sessiongate.Snapshot) *dto.SessionResponse {
	return &dto.SessionResponse{
		Status:   string(snap.Status),
		User:     ToSessionUserDTO(snap.User),
		Degraded: snap.Degraded(),
	}
}
