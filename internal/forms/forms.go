package forms

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/atharvakonge/portfolio-admin/internal/models"
)

// Messages shown by the form flows
const (
	MsgLoginFailed        = "Invalid credentials. Please try again."
	MsgAdminCreated       = "New admin created successfully."
	MsgAdminFailed        = "Failed to create admin. Email might already exist."
	MsgNotificationSent   = "Notification sent!"
	MsgNotificationFailed = "Failed to send notification"
	MsgNoUserIDs          = "Please enter at least one user ID."
	MsgBadUserIDs         = "Invalid User IDs format. Please use comma-separated numbers."
	MsgImpersonateFailed  = "Failed to generate impersonation token."
	MsgStockUpdated       = "Stock updated."
	MsgStockFailed        = "Failed to update stock"
	MsgBusy               = "A submission is already in progress."
	MsgBadPrice           = "Price must be a non-negative number."
	MsgNothingToUpdate    = "Nothing to update."
)

// Notification targets
const (
	TargetAll      = "all"
	TargetSpecific = "specific"
)

// Notification limits, in characters
const (
	TitleMax = 65
	BodyMax  = 240
)

// InvalidError is a rejected form; Message is safe to show the admin
type InvalidError struct {
	Message string
}

func (e *InvalidError) Error() string { return e.Message }

func invalid(message string) error {
	return &InvalidError{Message: message}
}

// IsInvalid reports whether err is a form validation failure
func IsInvalid(err error) bool {
	_, ok := errors.Cause(err).(*InvalidError)
	return ok
}

// LoginForm is posted by the login page
type LoginForm struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}

func (f LoginForm) Validate() error {
	if err := binding.Validator.ValidateStruct(&f); err != nil {
		return invalid("Email and password are required.")
	}
	return nil
}

func (f LoginForm) Credentials() models.Credentials {
	return models.Credentials{Username: f.Username, Password: f.Password}
}

// AdminForm creates another admin account from the settings page
type AdminForm struct {
	FullName string `form:"full_name" binding:"required"`
	Email    string `form:"email" binding:"required,email"`
	Password string `form:"password" binding:"required"`
}

func (f AdminForm) Validate() error {
	if err := binding.Validator.ValidateStruct(&f); err != nil {
		return invalid(fieldMessage(err))
	}
	return nil
}

func (f AdminForm) Request() models.RegisterRequest {
	return models.RegisterRequest{Email: f.Email, Password: f.Password, FullName: f.FullName}
}

// NotificationForm composes a push notification
type NotificationForm struct {
	Title   string `form:"title" binding:"max=65"`
	Body    string `form:"body" binding:"max=240"`
	Target  string `form:"target" binding:"omitempty,oneof=all specific"`
	UserIDs string `form:"user_ids"`
}

// Request validates the form and builds the outbound payload. Nothing is sent
// when it fails.
func (f NotificationForm) Request() (models.NotificationRequest, error) {
	if strings.TrimSpace(f.Title) == "" || strings.TrimSpace(f.Body) == "" {
		return models.NotificationRequest{}, invalid("Title and message body are required.")
	}
	if err := binding.Validator.ValidateStruct(&f); err != nil {
		return models.NotificationRequest{}, invalid(fieldMessage(err))
	}

	req := models.NotificationRequest{
		Title:     f.Title,
		Body:      f.Body,
		SendToAll: f.Target != TargetSpecific,
	}
	if req.SendToAll {
		return req, nil
	}

	if strings.TrimSpace(f.UserIDs) == "" {
		return models.NotificationRequest{}, invalid(MsgNoUserIDs)
	}
	ids, err := ParseUserIDs(f.UserIDs)
	if err != nil {
		return models.NotificationRequest{}, err
	}
	if len(ids) == 0 {
		return models.NotificationRequest{}, invalid(MsgNoUserIDs)
	}
	req.UserIDs = ids
	return req, nil
}

// ParseUserIDs reads a comma separated list of user ids. Blank entries are
// skipped; a single bad entry rejects the whole list.
func ParseUserIDs(s string) ([]int, error) {
	var ids []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.Atoi(part)
		if err != nil {
			return nil, invalid(MsgBadUserIDs)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// StockEditForm edits a master data row. Empty fields are left unchanged.
type StockEditForm struct {
	LongName     string `form:"long_name"`
	CurrentPrice string `form:"current_price"`
	Sector       string `form:"sector"`
}

func (f StockEditForm) Update() (models.StockUpdate, error) {
	var u models.StockUpdate
	if name := strings.TrimSpace(f.LongName); name != "" {
		u.LongName = &name
	}
	if sector := strings.TrimSpace(f.Sector); sector != "" {
		u.Sector = &sector
	}
	if p := strings.TrimSpace(f.CurrentPrice); p != "" {
		price, err := decimal.NewFromString(p)
		if err != nil {
			return models.StockUpdate{}, invalid(MsgBadPrice)
		}
		u.CurrentPrice = &price
	}
	if err := ValidateStockUpdate(u); err != nil {
		return models.StockUpdate{}, err
	}
	return u, nil
}

// ValidateStockUpdate applies the stock edit rules to an update from any
// source: at least one field set, no blank name or sector, no negative price.
func ValidateStockUpdate(u models.StockUpdate) error {
	if u.LongName == nil && u.Sector == nil && u.CurrentPrice == nil {
		return invalid(MsgNothingToUpdate)
	}
	if u.LongName != nil && strings.TrimSpace(*u.LongName) == "" {
		return invalid("Name cannot be blank.")
	}
	if u.Sector != nil && strings.TrimSpace(*u.Sector) == "" {
		return invalid("Sector cannot be blank.")
	}
	if u.CurrentPrice != nil && u.CurrentPrice.IsNegative() {
		return invalid(MsgBadPrice)
	}
	return nil
}

func fieldMessage(err error) string {
	errs, ok := err.(validator.ValidationErrors)
	if !ok || len(errs) == 0 {
		return "Please check the form and try again."
	}

	e := errs[0]
	switch e.Tag() {
	case "required":
		return e.Field() + " is required."
	case "email":
		return "Please enter a valid email address."
	case "max":
		return e.Field() + " must be at most " + e.Param() + " characters."
	case "oneof":
		return e.Field() + " must be one of: " + e.Param() + "."
	}
	return e.Field() + " is invalid."
}
