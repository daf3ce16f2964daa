package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/h4ks-com/cashbook/internal/auth"
	"github.com/h4ks-com/cashbook/internal/models"
	"github.com/h4ks-com/cashbook/internal/services"
)

const (
	msgTransactionNotFound = "Transaction not found"
	msgSomethingWentWrong  = "Something went wrong, please try again"
)

// WebHandler serves the server-rendered pages. Every page except login and
// register runs behind middleware.RequireSession.
type WebHandler struct {
	accounts *services.AccountService
	ledger   *services.LedgerService
	reports  *services.ReportService
	logger   *slog.Logger
	now      func() time.Time
}

func NewWebHandler(accounts *services.AccountService, ledger *services.LedgerService, reports *services.ReportService, logger *slog.Logger) *WebHandler {
	return &WebHandler{
		accounts: accounts,
		ledger:   ledger,
		reports:  reports,
		logger:   logger,
		now:      time.Now,
	}
}

// transactionForm holds the raw add/edit form fields so they can be
// re-rendered after a validation error.
type transactionForm struct {
	Type        string
	Category    string
	Amount      string
	Description string
	Date        string
}

func (f transactionForm) input() (services.TransactionInput, error) {
	amount, err := services.ParseAmount(f.Amount)
	if err != nil {
		return services.TransactionInput{}, err
	}

	in := services.TransactionInput{
		Kind:        models.Kind(f.Type),
		Category:    f.Category,
		Amount:      amount,
		Description: f.Description,
	}

	if date := strings.TrimSpace(f.Date); date != "" {
		occurredAt, err := time.ParseInLocation(dateLayout, date, time.UTC)
		if err != nil {
			return services.TransactionInput{}, &services.ValidationError{Message: "Date must be in YYYY-MM-DD format"}
		}
		in.OccurredAt = occurredAt
	}
	return in, nil
}

func bindTransactionForm(c *gin.Context) transactionForm {
	return transactionForm{
		Type:        c.PostForm("type"),
		Category:    c.PostForm("category"),
		Amount:      c.PostForm("amount_raw"),
		Description: c.PostForm("description"),
		Date:        c.PostForm("date"),
	}
}

func formFromTransaction(t *models.Transaction) transactionForm {
	return transactionForm{
		Type:        string(t.Kind),
		Category:    t.Category,
		Amount:      t.Amount.String(),
		Description: t.Description,
		Date:        t.OccurredAt.UTC().Format(dateLayout),
	}
}

// render adds the signed-in user and pending flashes to data. Flashes are
// taken before the body is written so the session cookie can still be set.
func (h *WebHandler) render(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	if p, ok := auth.CurrentPrincipal(c); ok {
		data["Username"] = p.Username
	}
	data["Flashes"] = auth.TakeFlashes(c)
	c.HTML(status, name, data)
}

func (h *WebHandler) fail(c *gin.Context, err error) {
	h.logger.Error("request failed", "path", c.Request.URL.Path, "error", err)
	c.Error(err)
	h.render(c, http.StatusInternalServerError, "error.html", gin.H{"Message": msgSomethingWentWrong})
}

func (h *WebHandler) principal(c *gin.Context) auth.Principal {
	p, _ := auth.CurrentPrincipal(c)
	return p
}

func (h *WebHandler) Dashboard(c *gin.Context) {
	dashboard, err := h.ledger.Dashboard(h.principal(c).UserID)
	if err != nil {
		h.fail(c, err)
		return
	}

	h.render(c, http.StatusOK, "dashboard.html", gin.H{
		"Dashboard": dashboard,
	})
}

func (h *WebHandler) LoginPage(c *gin.Context) {
	if _, ok := auth.SessionPrincipal(c); ok {
		c.Redirect(http.StatusFound, "/")
		return
	}
	h.render(c, http.StatusOK, "login.html", gin.H{"Title": "Login", "FormUsername": ""})
}

func (h *WebHandler) Login(c *gin.Context) {
	username := c.PostForm("username")

	user, err := h.accounts.Verify(username, c.PostForm("password"))
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			h.render(c, http.StatusUnauthorized, "login.html", gin.H{
				"Error":        "Invalid username or password",
				"FormUsername": username,
			})
			return
		}
		h.fail(c, err)
		return
	}

	if err := auth.StartSession(c, auth.Principal{UserID: user.ID, Username: user.Username}); err != nil {
		h.fail(c, err)
		return
	}

	c.Redirect(http.StatusFound, "/")
}

func (h *WebHandler) RegisterPage(c *gin.Context) {
	h.render(c, http.StatusOK, "register.html", gin.H{"Title": "Register", "FormUsername": ""})
}

func (h *WebHandler) Register(c *gin.Context) {
	username := c.PostForm("username")

	_, err := h.accounts.Register(username, c.PostForm("password"), c.PostForm("confirm_password"))
	if err != nil {
		status, message := http.StatusBadRequest, err.Error()
		switch {
		case errors.Is(err, services.ErrUsernameTaken):
			status, message = http.StatusConflict, "Username already exists"
		case !services.IsValidationError(err):
			h.fail(c, err)
			return
		}
		h.render(c, status, "register.html", gin.H{
			"Error":        message,
			"FormUsername": username,
		})
		return
	}

	auth.Flash(c, "Registration successful! Please login.")
	c.Redirect(http.StatusFound, "/login")
}

func (h *WebHandler) Logout(c *gin.Context) {
	if err := auth.EndSession(c); err != nil {
		h.logger.Warn("failed to clear session", "error", err)
	}
	c.Redirect(http.StatusFound, "/login")
}

func (h *WebHandler) renderForm(c *gin.Context, status int, action string, form transactionForm, formErr error) {
	title := "Add Transaction"
	if action != "/add" {
		title = "Edit Transaction"
	}

	data := gin.H{
		"Title":  title,
		"Action": action,
		"Form":   form,
	}
	if formErr != nil {
		data["Error"] = formErr.Error()
	}
	h.render(c, status, "form.html", data)
}

func (h *WebHandler) AddPage(c *gin.Context) {
	h.renderForm(c, http.StatusOK, "/add", transactionForm{
		Type: string(models.KindExpense),
		Date: h.now().UTC().Format(dateLayout),
	}, nil)
}

func (h *WebHandler) Add(c *gin.Context) {
	form := bindTransactionForm(c)

	in, err := form.input()
	if err == nil {
		// today's date keeps the time of entry
		if form.Date == h.now().UTC().Format(dateLayout) {
			in.OccurredAt = time.Time{}
		}
		_, err = h.ledger.Add(h.principal(c).UserID, in)
	}
	if err != nil {
		if services.IsValidationError(err) {
			h.renderForm(c, http.StatusBadRequest, "/add", form, err)
			return
		}
		h.fail(c, err)
		return
	}

	if models.Kind(strings.ToLower(strings.TrimSpace(form.Type))) == models.KindIncome {
		auth.Flash(c, "Income added successfully!")
	} else {
		auth.Flash(c, "Expense added successfully!")
	}
	c.Redirect(http.StatusFound, "/")
}

// owned loads the transaction named by the :id path parameter. When it does
// not exist for the signed-in user the visitor is sent back to the
// dashboard with a notice and ok is false.
func (h *WebHandler) owned(c *gin.Context) (*models.Transaction, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 0)
	if err == nil {
		transaction, err := h.ledger.Get(uint(id), h.principal(c).UserID)
		if err == nil {
			return transaction, true
		}
		if !errors.Is(err, services.ErrTransactionNotFound) {
			h.fail(c, err)
			return nil, false
		}
	}

	auth.Flash(c, msgTransactionNotFound)
	c.Redirect(http.StatusFound, "/")
	return nil, false
}

func (h *WebHandler) EditPage(c *gin.Context) {
	transaction, ok := h.owned(c)
	if !ok {
		return
	}
	h.renderForm(c, http.StatusOK, "/edit/"+c.Param("id"), formFromTransaction(transaction), nil)
}

func (h *WebHandler) Edit(c *gin.Context) {
	transaction, ok := h.owned(c)
	if !ok {
		return
	}

	action := "/edit/" + c.Param("id")
	form := bindTransactionForm(c)

	in, err := form.input()
	if err == nil {
		// an unchanged date keeps the stored time of day
		if form.Date == transaction.OccurredAt.UTC().Format(dateLayout) {
			in.OccurredAt = time.Time{}
		}
		_, err = h.ledger.Update(transaction.ID, h.principal(c).UserID, in)
	}
	if err != nil {
		switch {
		case services.IsValidationError(err):
			h.renderForm(c, http.StatusBadRequest, action, form, err)
		case errors.Is(err, services.ErrTransactionNotFound):
			auth.Flash(c, msgTransactionNotFound)
			c.Redirect(http.StatusFound, "/")
		default:
			h.fail(c, err)
		}
		return
	}

	auth.Flash(c, "Transaction updated successfully!")
	c.Redirect(http.StatusFound, "/")
}

func (h *WebHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 0)
	if err == nil {
		err = h.ledger.Delete(uint(id), h.principal(c).UserID)
	}

	switch {
	case err == nil:
		auth.Flash(c, "Transaction deleted successfully!")
	case errors.Is(err, services.ErrTransactionNotFound), errors.Is(err, strconv.ErrSyntax), errors.Is(err, strconv.ErrRange):
		auth.Flash(c, msgTransactionNotFound)
	default:
		h.fail(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/")
}

type monthOption struct {
	Number int
	Name   string
}

func (h *WebHandler) MonthlyReport(c *gin.Context) {
	currentYear := h.now().UTC().Year()

	year, err := queryInt(c, "year", currentYear)
	if err != nil {
		h.render(c, http.StatusBadRequest, "error.html", gin.H{"Message": "Invalid year"})
		return
	}
	month, err := queryInt(c, "month", 0)
	if err != nil {
		h.render(c, http.StatusBadRequest, "error.html", gin.H{"Message": "Invalid month"})
		return
	}

	report, err := h.reports.MonthlyReport(h.principal(c).UserID, year, month)
	if err != nil {
		if services.IsValidationError(err) {
			h.render(c, http.StatusBadRequest, "error.html", gin.H{"Message": err.Error()})
			return
		}
		h.fail(c, err)
		return
	}

	months := make([]monthOption, 12)
	for i := range months {
		months[i] = monthOption{Number: i + 1, Name: MonthName(i + 1)}
	}

	h.render(c, http.StatusOK, "report.html", gin.H{
		"Summary":       report.Summary,
		"Detail":        report.Detail,
		"Income":        services.Ranked(report.Detail.IncomeCategories),
		"Expense":       services.Ranked(report.Detail.ExpenseCategories),
		"SelectedYear":  year,
		"SelectedMonth": month,
		"Years":         services.SelectableYears(currentYear),
		"Months":        months,
	})
}
