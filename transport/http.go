package transport

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	errandapp "github.com/kakilabs/kaki-backend/application/errand"
	sessionapp "github.com/kakilabs/kaki-backend/application/session"
	userapp "github.com/kakilabs/kaki-backend/application/user"
	voiceapp "github.com/kakilabs/kaki-backend/application/voice"
	"github.com/kakilabs/kaki-backend/constant"
	"github.com/kakilabs/kaki-backend/model"
	utilsContext "github.com/kakilabs/kaki-backend/utils/context"
	"github.com/kakilabs/kaki-backend/utils/errors"
	"github.com/kakilabs/kaki-backend/utils/logger"
	validatorx "github.com/kakilabs/kaki-backend/utils/validator"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"
)

const deviceIDHeader = "X-Device-ID"

type RestHandler struct {
	UserApp    userapp.UserApp
	SessionApp sessionapp.SessionApp
	VoiceApp   voiceapp.VoiceApp
	ErrandApp  errandapp.ErrandApp
}

func NewTransport(UserApp userapp.UserApp, SessionApp sessionapp.SessionApp, VoiceApp voiceapp.VoiceApp, ErrandApp errandapp.ErrandApp, internalAPIKey string) http.Handler {
	mux := mux.NewRouter()

	rh := &RestHandler{
		UserApp:    UserApp,
		SessionApp: SessionApp,
		VoiceApp:   VoiceApp,
		ErrandApp:  ErrandApp,
	}

	// Swagger UI
	mux.PathPrefix("/swagger/").Handler(httpSwagger.WrapHandler)

	// Public routes
	mux.HandleFunc("/healthz", rh.Healthz).Methods(http.MethodGet)
	mux.HandleFunc("/onboard", rh.Onboard).Methods(http.MethodPost)
	mux.HandleFunc("/session/restore", rh.RestoreSession).Methods(http.MethodGet)
	mux.HandleFunc("/session", rh.ClearSession).Methods(http.MethodDelete)

	// Protected routes
	mux.HandleFunc("/users/{id}", rh.GetUser).Methods(http.MethodGet)
	mux.HandleFunc("/voice/sessions", rh.StartVoiceSession).Methods(http.MethodPost)
	mux.HandleFunc("/voice/sessions", rh.StopVoiceSession).Methods(http.MethodDelete)
	mux.HandleFunc("/voice/sessions/status", rh.VoiceSessionStatus).Methods(http.MethodGet)
	mux.HandleFunc("/voice/classify", rh.ClassifyCommand).Methods(http.MethodPost)
	mux.HandleFunc("/voice/conversations/{id}", rh.VoiceTranscript).Methods(http.MethodGet)
	mux.HandleFunc("/errands/rides", rh.ListRideTypes).Methods(http.MethodGet)
	mux.HandleFunc("/errands/rides/book", rh.BookRide).Methods(http.MethodPost)
	mux.HandleFunc("/errands/restaurants", rh.ListRestaurants).Methods(http.MethodGet)
	mux.HandleFunc("/errands/food/order", rh.OrderFood).Methods(http.MethodPost)
	mux.HandleFunc("/errands/groceries", rh.GroceryCatalog).Methods(http.MethodGet)
	mux.HandleFunc("/errands/groceries/order", rh.OrderGroceries).Methods(http.MethodPost)
	mux.HandleFunc("/errands/bills", rh.BillCatalog).Methods(http.MethodGet)
	mux.HandleFunc("/errands/bills/pay", rh.PayBill).Methods(http.MethodPost)

	// Internal routes
	internal := mux.PathPrefix("/internal").Subrouter()
	internal.Use(InternalMiddleware(internalAPIKey))
	internal.HandleFunc("/users/{id}/deactivate", rh.DeactivateUser).Methods(http.MethodPost)

	// middleware
	mux.Use(LoggingMiddleware())
	mux.Use(AuthMiddleware(UserApp))

	return mux
}

func (s *RestHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, map[string]string{"status": "ok"})
}

// Onboard handler
// @Summary Onboard user
// @Description Create or update a user by name and phone number
// @Tags Onboarding
// @Accept json
// @Produce json
// @Param X-Device-ID header string false "Device identifier"
// @Param request body model.OnboardRequest true "Onboard Request"
// @Success 200 {object} model.OnboardResponse
// @Failure 400 {object} transport.Response
// @Router /onboard [post]
func (s *RestHandler) Onboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req model.OnboardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.SetCustomError(constant.ErrInvalidRequest))
		return
	}

	if err := validatorx.ValidateStruct(&req); err != nil {
		writeError(w, errors.SetCustomError(constant.ErrValidation))
		return
	}

	if s.UserApp == nil {
		writeError(w, errors.SetCustomError(constant.ErrInternal))
		return
	}

	res, err := s.UserApp.CreateOrUpdateUser(ctx, &req)
	if err != nil {
		writeError(w, err)
		return
	}

	if deviceID, ok := utilsContext.GetDeviceID(ctx); ok && s.SessionApp != nil {
		if _, err := s.SessionApp.Save(ctx, deviceID, res.User); err != nil {
			logger.Error("[Onboard] err SessionApp.Save", zap.String("error", err.Error()))
		}
	}

	writeSuccess(w, res)
}

// RestoreSession handler
// @Summary Restore device session
// @Description Resolve the device's stored session against the user directory
// @Tags Onboarding
// @Produce json
// @Param X-Device-ID header string true "Device identifier"
// @Success 200 {object} model.RestoreResponse
// @Router /session/restore [get]
func (s *RestHandler) RestoreSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	deviceID, ok := utilsContext.GetDeviceID(ctx)
	if !ok {
		writeError(w, errors.SetCustomError(constant.ErrInvalidRequest))
		return
	}

	user, err := s.SessionApp.Restore(ctx, deviceID)
	if err != nil {
		writeError(w, err)
		return
	}
	if user == nil {
		writeSuccess(w, &model.RestoreResponse{Found: false})
		return
	}

	token, err := s.UserApp.IssueToken(ctx, user.ID)
	if err != nil {
		logger.Error("[RestoreSession] err IssueToken", zap.String("error", err.Error()))
		writeError(w, errors.SetCustomError(constant.ErrInternal))
		return
	}

	writeSuccess(w, &model.RestoreResponse{User: user, Token: token, Found: true})
}

func (s *RestHandler) ClearSession(w http.ResponseWriter, r *http.Request) {
	deviceID, ok := utilsContext.GetDeviceID(r.Context())
	if !ok {
		writeError(w, errors.SetCustomError(constant.ErrInvalidRequest))
		return
	}

	if err := s.SessionApp.Clear(r.Context(), deviceID); err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, nil)
}

// GetUser handler
// @Summary Get user
// @Tags Users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} model.UserEntity
// @Failure 404 {object} transport.Response
// @Security BearerAuth
// @Router /users/{id} [get]
func (s *RestHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeError(w, errors.SetCustomError(constant.ErrInvalidRequest))
		return
	}

	user, err := s.UserApp.GetUserByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, user)
}

func (s *RestHandler) DeactivateUser(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeError(w, errors.SetCustomError(constant.ErrInvalidRequest))
		return
	}

	if err := s.UserApp.DeactivateUser(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, nil)
}

// StartVoiceSession handler
// @Summary Start voice session
// @Description Open a conversational-voice session for the caller
// @Tags Voice
// @Accept json
// @Produce json
// @Param request body model.StartSessionRequest false "Session options"
// @Success 200 {object} model.VoiceSessionStatus
// @Failure 409 {object} transport.Response
// @Security BearerAuth
// @Router /voice/sessions [post]
func (s *RestHandler) StartVoiceSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := utilsContext.GetUserID(ctx)
	if !ok {
		writeError(w, errors.SetCustomError(constant.ErrUnauthorize))
		return
	}

	var req model.StartSessionRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, errors.SetCustomError(constant.ErrInvalidRequest))
			return
		}
	}

	status, err := s.VoiceApp.Start(ctx, userID, &req)
	if err != nil {
		// The status still matters on failure: it carries the attempt
		// count and, past the limit, the browser fallback URL.
		writeErrorWithData(w, err, status)
		return
	}
	writeSuccess(w, status)
}

func (s *RestHandler) StopVoiceSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := utilsContext.GetUserID(ctx)
	if !ok {
		writeError(w, errors.SetCustomError(constant.ErrUnauthorize))
		return
	}

	status, err := s.VoiceApp.Stop(ctx, userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, status)
}

func (s *RestHandler) VoiceSessionStatus(w http.ResponseWriter, r *http.Request) {
	userID, ok := utilsContext.GetUserID(r.Context())
	if !ok {
		writeError(w, errors.SetCustomError(constant.ErrUnauthorize))
		return
	}
	writeSuccess(w, s.VoiceApp.Status(userID))
}

// ClassifyCommand handler
// @Summary Classify voice command
// @Tags Voice
// @Accept json
// @Produce json
// @Param request body model.ClassifyRequest true "Transcript"
// @Success 200 {object} model.Command
// @Security BearerAuth
// @Router /voice/classify [post]
func (s *RestHandler) ClassifyCommand(w http.ResponseWriter, r *http.Request) {
	var req model.ClassifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.SetCustomError(constant.ErrInvalidRequest))
		return
	}
	if err := validatorx.ValidateStruct(&req); err != nil {
		writeError(w, errors.SetCustomError(constant.ErrInvalidRequest))
		return
	}
	writeSuccess(w, s.VoiceApp.Classify(req.Text))
}

// VoiceTranscript handler
// @Summary Get conversation transcript
// @Tags Voice
// @Produce json
// @Param id path string true "Conversation ID"
// @Param limit query int false "Max lines"
// @Success 200 {array} model.ConversationMessageEntity
// @Failure 404 {object} transport.Response
// @Security BearerAuth
// @Router /voice/conversations/{id} [get]
func (s *RestHandler) VoiceTranscript(w http.ResponseWriter, r *http.Request) {
	userID, ok := utilsContext.GetUserID(r.Context())
	if !ok {
		writeError(w, errors.SetCustomError(constant.ErrUnauthorize))
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	messages, err := s.VoiceApp.Transcript(r.Context(), userID, mux.Vars(r)["id"], limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, messages)
}

func (s *RestHandler) ListRideTypes(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, s.ErrandApp.ListRideTypes(r.Context()))
}

func (s *RestHandler) BookRide(w http.ResponseWriter, r *http.Request) {
	var req model.BookRideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.SetCustomError(constant.ErrInvalidRequest))
		return
	}
	if err := validatorx.ValidateStruct(&req); err != nil {
		writeError(w, errors.SetCustomError(constant.ErrInvalidRequest))
		return
	}

	res, err := s.ErrandApp.BookRide(r.Context(), &req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, res)
}

func (s *RestHandler) ListRestaurants(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, s.ErrandApp.ListRestaurants(r.Context()))
}

func (s *RestHandler) OrderFood(w http.ResponseWriter, r *http.Request) {
	var req model.OrderFoodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.SetCustomError(constant.ErrInvalidRequest))
		return
	}
	if err := validatorx.ValidateStruct(&req); err != nil {
		writeError(w, errors.SetCustomError(constant.ErrInvalidRequest))
		return
	}

	res, err := s.ErrandApp.OrderFood(r.Context(), &req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, res)
}

func (s *RestHandler) GroceryCatalog(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, s.ErrandApp.GroceryCatalog(r.Context()))
}

func (s *RestHandler) OrderGroceries(w http.ResponseWriter, r *http.Request) {
	var req model.OrderGroceriesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.SetCustomError(constant.ErrInvalidRequest))
		return
	}
	if err := validatorx.ValidateStruct(&req); err != nil {
		writeError(w, errors.SetCustomError(constant.ErrInvalidRequest))
		return
	}

	res, err := s.ErrandApp.OrderGroceries(r.Context(), &req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, res)
}

func (s *RestHandler) BillCatalog(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, s.ErrandApp.BillCatalog(r.Context()))
}

func (s *RestHandler) PayBill(w http.ResponseWriter, r *http.Request) {
	var req model.PayBillRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.SetCustomError(constant.ErrInvalidRequest))
		return
	}
	if err := validatorx.ValidateStruct(&req); err != nil {
		writeError(w, errors.SetCustomError(constant.ErrInvalidRequest))
		return
	}

	res, err := s.ErrandApp.PayBill(r.Context(), &req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, res)
}
