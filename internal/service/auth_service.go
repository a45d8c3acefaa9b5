package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"log/slog"

	"github.com/BOBWANDATI/backend/internal/auth"
	"github.com/BOBWANDATI/backend/internal/config"
	"github.com/BOBWANDATI/backend/internal/domain"
	"github.com/BOBWANDATI/backend/pkg/e"
	"github.com/BOBWANDATI/backend/pkg/validator"
)

type authService struct {
	repo   AdminRepository
	tokens TokenManager
	mail   MailQueue
	links  config.LinksConfig
	logger *slog.Logger
}

func NewAuthService(
	repo AdminRepository,
	tokens TokenManager,
	mail MailQueue,
	links config.LinksConfig,
	logger *slog.Logger,
) AuthService {
	return &authService{
		repo:   repo,
		tokens: tokens,
		mail:   mail,
		links:  links,
		logger: logger,
	}
}

func (s *authService) Register(ctx context.Context, req domain.RegisterRequest) (domain.RegisterResponse, error) {
	if err := validator.ValidateStruct(req); err != nil {
		s.logger.Warn("register rejected", slog.Any("error", err))
		return domain.RegisterResponse{}, fmt.Errorf("register: %w", e.ErrInvalidInput)
	}

	role := domain.AdminRole(req.Role)

	// Username uniqueness is global, regardless of role.
	if _, err := s.repo.GetByUsername(ctx, req.Username); err == nil {
		return domain.RegisterResponse{}, fmt.Errorf("username %q taken: %w", req.Username, e.ErrConflict)
	} else if !errors.Is(err, e.ErrNotFound) {
		return domain.RegisterResponse{}, err
	}

	approved := false
	department := ""

	switch role {
	case domain.RoleSuper:
		count, err := s.repo.CountByRole(ctx, domain.RoleSuper)
		if err != nil {
			return domain.RegisterResponse{}, err
		}
		if count >= domain.MaxSuperAdmins {
			return domain.RegisterResponse{}, fmt.Errorf("only %d super admins allowed: %w", domain.MaxSuperAdmins, e.ErrConflict)
		}
		approved = true

	case domain.RoleAdmin:
		if strings.TrimSpace(req.Department) == "" {
			return domain.RegisterResponse{}, fmt.Errorf("department required for admin role: %w", e.ErrInvalidInput)
		}
		normalized, known := domain.NormalizeDepartment(req.Department)
		if !known {
			normalized = domain.DefaultDepartment
		}
		department = normalized
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return domain.RegisterResponse{}, e.Wrap("register", err)
	}

	admin := &domain.Admin{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         role,
		Department:   department,
		Approved:     approved,
	}

	if err := s.repo.Create(ctx, admin); err != nil {
		if errors.Is(err, e.ErrUniqueViolation) {
			return domain.RegisterResponse{}, fmt.Errorf("username %q taken: %w", req.Username, e.ErrConflict)
		}
		return domain.RegisterResponse{}, err
	}

	s.logger.Info("admin registered",
		slog.String("id", admin.ID.String()),
		slog.String("username", admin.Username),
		slog.String("role", string(admin.Role)),
		slog.Bool("approved", admin.Approved),
	)

	if role == domain.RoleAdmin {
		s.requestApproval(ctx, admin)
		return domain.RegisterResponse{Msg: "Admin registered, awaiting super admin approval."}, nil
	}

	return domain.RegisterResponse{Msg: "Super admin registered and auto-approved."}, nil
}

// requestApproval mails an approval link to every approved super admin. The
// account is already committed; every failure here is logged and swallowed.
func (s *authService) requestApproval(ctx context.Context, admin *domain.Admin) {
	token, err := s.tokens.MintApprovalToken(admin.ID)
	if err != nil {
		s.logger.Error("approval token mint failed, no approval mail sent",
			slog.String("admin_id", admin.ID.String()),
			slog.Any("error", err),
		)
		return
	}

	supers, err := s.repo.ListApprovedSupers(ctx)
	if err != nil {
		s.logger.Error("super admin lookup failed, no approval mail sent",
			slog.String("admin_id", admin.ID.String()),
			slog.Any("error", err),
		)
		return
	}
	if len(supers) == 0 {
		s.logger.Warn("no approved super admins, approval mail has no recipients",
			slog.String("admin_id", admin.ID.String()),
		)
		return
	}

	approvalLink := fmt.Sprintf("%s/api/v1/auth/approve/%s", s.links.BackendBaseURL, token)
	body := fmt.Sprintf(`<h3>New Admin Approval Needed</h3>
<p>Username: <strong>%s</strong> (department: %s)</p>
<a href="%s" style="padding:10px 20px;background:#007BFF;color:white;text-decoration:none;border-radius:5px;">Approve Admin</a>`,
		admin.Username, admin.Department, approvalLink)

	for _, super := range supers {
		msg := domain.MailMessage{
			To:       super.Email,
			Subject:  "Admin Approval Request",
			HTMLBody: body,
		}
		if err := s.mail.Enqueue(ctx, msg); err != nil {
			s.logger.Error("approval mail enqueue failed",
				slog.String("to", super.Email),
				slog.Any("error", err),
			)
		}
	}
}

func (s *authService) ApproveViaToken(ctx context.Context, token string) (domain.AdminProfile, error) {
	id, err := s.tokens.VerifyApprovalToken(token)
	if err != nil {
		s.logger.Warn("approval token rejected", slog.Any("error", err))
		return domain.AdminProfile{}, err
	}

	admin, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.AdminProfile{}, err
	}

	if admin.Approved {
		return admin.Profile(), fmt.Errorf("admin %s: %w", admin.Username, e.ErrAlreadyApproved)
	}

	if err := s.repo.SetApproved(ctx, id); err != nil {
		// A concurrent approval between the read and the write lands here.
		if errors.Is(err, e.ErrNotFound) {
			admin.Approved = true
			return admin.Profile(), fmt.Errorf("admin %s: %w", admin.Username, e.ErrAlreadyApproved)
		}
		return domain.AdminProfile{}, err
	}
	admin.Approved = true

	s.logger.Info("admin approved",
		slog.String("id", admin.ID.String()),
		slog.String("username", admin.Username),
	)

	loginLink := fmt.Sprintf("%s/login", s.links.ClientBaseURL)
	msg := domain.MailMessage{
		To:      admin.Email,
		Subject: "Admin Account Approved",
		HTMLBody: fmt.Sprintf(`<h3>Your Admin Account Has Been Approved</h3>
<p>Hi %s,</p>
<a href="%s" style="padding:10px 20px;background:#4CAF50;color:#fff;text-decoration:none;border-radius:5px;">Log In Now</a>`,
			admin.Username, loginLink),
	}
	if err := s.mail.Enqueue(ctx, msg); err != nil {
		s.logger.Error("confirmation mail enqueue failed",
			slog.String("to", admin.Email),
			slog.Any("error", err),
		)
	}

	return admin.Profile(), nil
}

func (s *authService) Login(ctx context.Context, req domain.LoginRequest) (domain.LoginResponse, error) {
	if err := validator.ValidateStruct(req); err != nil {
		return domain.LoginResponse{}, fmt.Errorf("login: %w", e.ErrInvalidInput)
	}

	admin, err := s.repo.GetByUsernameAndRole(ctx, req.Username, domain.AdminRole(req.Role))
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			// Never reveal whether the account exists.
			return domain.LoginResponse{}, e.ErrInvalidCredentials
		}
		return domain.LoginResponse{}, err
	}

	if !admin.Approved {
		return domain.LoginResponse{}, e.ErrPendingApproval
	}

	if err := auth.CheckPassword(req.Password, admin.PasswordHash); err != nil {
		if errors.Is(err, e.ErrInvalidCredentials) {
			return domain.LoginResponse{}, e.ErrInvalidCredentials
		}
		return domain.LoginResponse{}, e.Wrap("login", err)
	}

	token, err := s.tokens.MintSessionToken(admin.ID)
	if err != nil {
		return domain.LoginResponse{}, e.Wrap("login", err)
	}

	s.logger.Info("admin logged in",
		slog.String("id", admin.ID.String()),
		slog.String("username", admin.Username),
	)

	return domain.LoginResponse{Token: token, Admin: admin.Profile()}, nil
}
