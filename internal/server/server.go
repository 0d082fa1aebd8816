package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	json "github.com/goccy/go-json"
	"github.com/iwvelando/hypotheek/internal/assessment"
	"github.com/iwvelando/hypotheek/internal/brackets"
	"github.com/iwvelando/hypotheek/internal/domain"
	"github.com/iwvelando/hypotheek/internal/mortgage"
	"github.com/iwvelando/hypotheek/internal/rates"
	"github.com/iwvelando/hypotheek/internal/studentdebt"
	"github.com/iwvelando/hypotheek/pkg/constants"
	"github.com/iwvelando/hypotheek/pkg/validation"
	"go.uber.org/zap"
)

// shutdownTimeout bounds how long in-flight requests may finish after the
// context passed to Serve is cancelled.
const shutdownTimeout = 10 * time.Second

type handler struct {
	logger      *zap.Logger
	calc        *mortgage.Calculator
	assessor    *assessment.Assessor
	rates       *rates.Client
	validate    *validator.Validate
	maxBodySize int64
	version     string
}

// NewHandler constructs the HTTP handler that serves the calculator API.
// rateClient may be nil, in which case /api/rates answers 503.
func NewHandler(logger *zap.Logger, calc *mortgage.Calculator, rateClient *rates.Client, maxBodySize int64, version string) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	if maxBodySize <= 0 {
		maxBodySize = constants.DefaultMaxBodySizeBytes
	}

	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	h := &handler{
		logger:      logger,
		calc:        calc,
		assessor:    assessment.NewAssessor(logger, calc),
		rates:       rateClient,
		validate:    validator.New(),
		maxBodySize: maxBodySize,
		version:     trimmedVersion,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/mortgage", h.handleMortgage)
	mux.HandleFunc("/api/student-debt", h.handleStudentDebt)
	mux.HandleFunc("/api/assessment", h.handleAssessment)
	mux.HandleFunc("/api/rates", h.handleRates)
	mux.HandleFunc("/api/version", h.handleVersion)
	mux.HandleFunc("/healthz", h.handleHealth)

	return mux
}

// Serve listens on cfg.Address until ctx is cancelled, then shuts down
// gracefully.
func Serve(ctx context.Context, logger *zap.Logger, cfg Config, handler http.Handler) error {
	srv := &http.Server{
		Addr:              cfg.Address,
		Handler:           handler,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.WriteTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("listening",
			zap.String("op", "server.Serve"),
			zap.String("address", cfg.Address),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	logger.Info("shutting down",
		zap.String("op", "server.Serve"),
	)
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	return nil
}

type mortgageRequest struct {
	PrimaryIncome         float64 `json:"primaryIncome" validate:"gte=0"`
	SecondaryIncome       float64 `json:"secondaryIncome" validate:"gte=0"`
	StudentDebtMonthlyFee float64 `json:"studentDebtMonthlyFee" validate:"gte=0"`
	InterestRate          float64 `json:"interestRate" validate:"gte=0,lte=100"`
	FixedRatePeriod       int     `json:"fixedRatePeriod" validate:"gte=0"`
	EnergyLabel           string  `json:"energyLabel"`
	BuildingType          string  `json:"buildingType"`
}

type mortgageResponse struct {
	mortgage.Result
	EnergyLabel  string `json:"energyLabel"`
	BuildingType string `json:"buildingType"`
}

type studentDebtRequest struct {
	Principal          float64 `json:"principal" validate:"gte=0"`
	AnnualInterestRate float64 `json:"annualInterestRate" validate:"gte=0,lte=100"`
	Months             int     `json:"months" validate:"gt=0"`
	Income             float64 `json:"income" validate:"gte=0"`
	HasPartner         bool    `json:"hasPartner"`
}

type studentLoanRequest struct {
	Principal          float64 `json:"principal" validate:"gte=0"`
	AnnualInterestRate float64 `json:"annualInterestRate" validate:"gte=0,lte=100"`
	Months             int     `json:"months" validate:"gt=0"`
}

type assessmentRequest struct {
	FixedIncome     float64              `json:"fixedIncome" validate:"gte=0"`
	ZZPIncomes      []float64            `json:"zzpIncomes" validate:"max=3,dive,gte=0"`
	StudentLoans    []studentLoanRequest `json:"studentLoans" validate:"max=2,dive"`
	Partnered       bool                 `json:"partnered"`
	HousePrice      float64              `json:"housePrice" validate:"gte=0"`
	LoanToValue     *float64             `json:"loanToValue" validate:"omitempty,gte=0,lte=100"`
	FixedRatePeriod int                  `json:"fixedRatePeriod" validate:"gte=0"`
	InterestRate    float64              `json:"interestRate" validate:"gte=0,lte=100"`
	EnergyLabel     string               `json:"energyLabel"`
	BuildingType    string               `json:"buildingType"`
	SweepRates      []float64            `json:"sweepRates" validate:"max=200,dive,gte=0,lte=100"`
}

type assessmentResponse struct {
	assessment.Assessment
	Sensitivity []assessment.RatePoint `json:"sensitivity,omitempty"`
}

type ratesResponse struct {
	URL    string        `json:"url"`
	Offers []rates.Offer `json:"offers"`
}

func (h *handler) handleMortgage(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleMortgage"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	var req mortgageRequest
	if !h.decode(w, r, &req, op) {
		return
	}

	building, err := domain.ParseBuildingType(req.BuildingType)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}
	label, _ := domain.ParseEnergyLabel(req.EnergyLabel)

	result, err := h.calc.Compute(mortgage.Query{
		PrimaryIncome:         req.PrimaryIncome,
		SecondaryIncome:       req.SecondaryIncome,
		StudentDebtMonthlyFee: req.StudentDebtMonthlyFee,
		InterestRate:          req.InterestRate,
		FixedRatePeriodYears:  req.FixedRatePeriod,
		EnergyLabel:           label,
		BuildingType:          building,
	})
	if err != nil {
		h.respondCalculationError(w, err, op)
		return
	}

	h.writeJSON(w, http.StatusOK, mortgageResponse{
		Result:       result,
		EnergyLabel:  label.String(),
		BuildingType: building.String(),
	})
}

func (h *handler) handleStudentDebt(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleStudentDebt"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	var req studentDebtRequest
	if !h.decode(w, r, &req, op) {
		return
	}

	result, err := studentdebt.Compute(studentdebt.Query{
		Principal:          req.Principal,
		AnnualInterestRate: req.AnnualInterestRate,
		NumMonths:          req.Months,
		Income:             req.Income,
		HasPartner:         req.HasPartner,
	})
	if err != nil {
		h.respondCalculationError(w, err, op)
		return
	}

	h.writeJSON(w, http.StatusOK, result)
}

func (h *handler) handleAssessment(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleAssessment"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	var req assessmentRequest
	if !h.decode(w, r, &req, op) {
		return
	}

	household, err := req.household()
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	result, err := h.assessor.Assess(household)
	if err != nil {
		h.respondCalculationError(w, err, op)
		return
	}

	response := assessmentResponse{Assessment: result}
	if len(req.SweepRates) > 0 {
		points, err := h.assessor.RateSensitivity(r.Context(), household, req.SweepRates)
		if err != nil {
			h.respondCalculationError(w, err, op)
			return
		}
		response.Sensitivity = points
	}

	h.writeJSON(w, http.StatusOK, response)
}

func (h *handler) handleRates(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleRates"
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}
	if h.rates == nil {
		h.respondErrorWithOp(w, http.StatusServiceUnavailable, "market rates are disabled", op)
		return
	}

	filter, err := ratesFilter(r)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	offers, err := h.rates.Offers(r.Context(), filter)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadGateway, err.Error(), op)
		return
	}

	h.writeJSON(w, http.StatusOK, ratesResponse{
		URL:    h.rates.RequestURL(filter),
		Offers: offers,
	})
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"version":      h.version,
		"tableVersion": h.calc.Table().Version(),
	})
}

func (h *handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (req assessmentRequest) household() (assessment.Household, error) {
	building, err := domain.ParseBuildingType(req.BuildingType)
	if err != nil {
		return assessment.Household{}, err
	}
	label, _ := domain.ParseEnergyLabel(req.EnergyLabel)

	loanToValue := 100.0
	if req.LoanToValue != nil {
		loanToValue = *req.LoanToValue
	}

	loans := make([]assessment.StudentLoan, 0, len(req.StudentLoans))
	for _, loan := range req.StudentLoans {
		loans = append(loans, assessment.StudentLoan{
			Principal:          loan.Principal,
			AnnualInterestRate: loan.AnnualInterestRate,
			Months:             loan.Months,
		})
	}

	return assessment.Household{
		FixedIncome:          req.FixedIncome,
		ZZPIncomes:           req.ZZPIncomes,
		StudentLoans:         loans,
		Partnered:            req.Partnered,
		HousePrice:           req.HousePrice,
		LoanToValue:          loanToValue,
		FixedRatePeriodYears: req.FixedRatePeriod,
		InterestRate:         req.InterestRate,
		BuildingType:         building,
		EnergyLabel:          label,
	}, nil
}

func ratesFilter(r *http.Request) (rates.Filter, error) {
	q := r.URL.Query()

	ltv := 100.0
	if raw := q.Get("ltv"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return rates.Filter{}, fmt.Errorf("invalid ltv %q", raw)
		}
		ltv = parsed
	}

	period := constants.StressTestPeriodYears
	if raw := q.Get("period"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			return rates.Filter{}, fmt.Errorf("invalid period %q", raw)
		}
		period = parsed
	}

	building, err := domain.ParseBuildingType(q.Get("buildingType"))
	if err != nil {
		return rates.Filter{}, err
	}
	label, ok := domain.ParseEnergyLabel(q.Get("energyLabel"))
	if !ok {
		return rates.Filter{}, fmt.Errorf("unknown energy label %q", q.Get("energyLabel"))
	}

	return rates.Filter{
		LTVBand:              domain.BandForLTV(ltv),
		FixedRatePeriodYears: period,
		BuildingType:         building,
		EnergyLabel:          label,
		Form:                 domain.FormAnnuity,
	}, nil
}

// decode reads a JSON body into dst and validates it, answering the request
// itself when either step fails.
func (h *handler) decode(w http.ResponseWriter, r *http.Request, dst interface{}, op string) bool {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondErrorWithOp(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request body exceeds limit of %d bytes", h.maxBodySize), op)
			return false
		}
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to read request: %v", err), op)
		return false
	}
	if err := json.Unmarshal(body, dst); err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to decode request: %v", err), op)
		return false
	}

	if err := h.validate.Struct(dst); err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, validationMessage(err), op)
		return false
	}
	return true
}

func validationMessage(err error) string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err.Error()
	}
	messages := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		switch e.Tag() {
		case "gte":
			messages = append(messages, fmt.Sprintf("field %s must be at least %s", e.Namespace(), e.Param()))
		case "lte":
			messages = append(messages, fmt.Sprintf("field %s must be at most %s", e.Namespace(), e.Param()))
		case "gt":
			messages = append(messages, fmt.Sprintf("field %s must be greater than %s", e.Namespace(), e.Param()))
		case "max":
			messages = append(messages, fmt.Sprintf("field %s allows at most %s entries", e.Namespace(), e.Param()))
		default:
			messages = append(messages, fmt.Sprintf("field %s failed %s", e.Namespace(), e.Tag()))
		}
	}
	return strings.Join(messages, "; ")
}

// respondCalculationError maps calculator errors onto HTTP statuses.
func (h *handler) respondCalculationError(w http.ResponseWriter, err error, op string) {
	var invalid *validation.InvalidInputError
	var outOfRange *brackets.OutOfRangeError
	switch {
	case errors.As(err, &invalid):
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
	case errors.As(err, &outOfRange):
		h.respondErrorWithOp(w, http.StatusUnprocessableEntity, err.Error(), op)
	case errors.Is(err, context.Canceled):
		h.respondErrorWithOp(w, http.StatusServiceUnavailable, err.Error(), op)
	default:
		h.respondErrorWithOp(w, http.StatusInternalServerError, err.Error(), op)
	}
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, status int, msg string, op string) {
	h.logger.Error("request failed",
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("error", msg),
	)

	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}
