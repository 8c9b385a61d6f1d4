package service

import (
	"context"
	"errors"

	"aquatech-web/internal/dto"
	"aquatech-web/internal/entity"
	"aquatech-web/internal/pkg/logger"
	"aquatech-web/internal/pkg/mailer"
	"aquatech-web/internal/repository/unitofwork"
	"aquatech-web/internal/routing"
)

var ErrInquiryDisabled = errors.New("Product inquiries are not available right now")

type IInquiryService interface {
	Send(ctx context.Context, user *entity.SessionUser, modelId string, req *dto.InquiryRequest) error
	Enabled() bool
}

type inquiryService struct {
	uowFactory   unitofwork.RepositoryFactory
	emailService mailer.IEmailService
	salesEmail   string
	baseURL      string
	logger       logger.ILogger
}

// NewInquiryService accepts a nil emailService; inquiries are then refused
// with ErrInquiryDisabled.
func NewInquiryService(
	uowFactory unitofwork.RepositoryFactory,
	emailService mailer.IEmailService,
	salesEmail, baseURL string,
	log logger.ILogger,
) IInquiryService {
	return &inquiryService{
		uowFactory:   uowFactory,
		emailService: emailService,
		salesEmail:   salesEmail,
		baseURL:      baseURL,
		logger:       log,
	}
}

func (s *inquiryService) Enabled() bool {
	return s.emailService != nil && s.salesEmail != ""
}

func (s *inquiryService) Send(ctx context.Context, user *entity.SessionUser, modelId string, req *dto.InquiryRequest) error {
	if !s.Enabled() {
		return ErrInquiryDisabled
	}
	if err := validateStruct(req); err != nil {
		return err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	product, err := uow.ProductRepository().FindByModelId(ctx, modelId)
	if err != nil {
		return err
	}
	if product == nil {
		return ErrProductNotFound
	}

	err = s.emailService.SendProductInquiry(mailer.ProductInquiry{
		ToEmail:      s.salesEmail,
		ReplyTo:      user.Email,
		CustomerName: user.DisplayName(),
		ProductName:  product.Name,
		ProductURL:   s.baseURL + routing.ProductPath(product.ModelId),
		Message:      req.Message,
	})
	if err != nil {
		s.logger.Error("Inquiry", "Failed to send inquiry", map[string]interface{}{
			"model_id": modelId,
			"error":    err.Error(),
		})
		return err
	}

	s.logger.Info("Inquiry", "Inquiry sent", map[string]interface{}{
		"model_id": modelId,
		"user_id":  user.ID,
	})
	return nil
}
