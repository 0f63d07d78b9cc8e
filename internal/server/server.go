package server

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"problemtracker/internal/domain/errors"
	"problemtracker/internal/domain/models"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

type ProblemRepository interface {
	ListProblems(ctx context.Context) ([]models.Problem, error)
	GetProblemByID(ctx context.Context, id string) (*models.Problem, error)
	CreateProblem(ctx context.Context, problem *models.Problem) error
	UpdateStatus(ctx context.Context, id string, status string) error
	DeleteProblem(ctx context.Context, id string) error
}

// ListCache holds the ordered problem list between writes.
type ListCache interface {
	GetList(ctx context.Context) ([]models.Problem, bool, error)
	SetList(ctx context.Context, list []models.Problem) error
	Invalidate(ctx context.Context) error
}

// listTimeout bounds a shared list query, which outlives any single caller.
const listTimeout = 10 * time.Second

type Option func(*ProblemAPI)

func WithCache(c ListCache) Option {
	return func(api *ProblemAPI) { api.cache = c }
}

type ProblemAPI struct {
	httpSrv  *http.Server
	repo     ProblemRepository
	cache    ListCache
	listOnce singleflight.Group
	// listGen changes on every write; a list read across a change is not cached.
	listGen  atomic.Uint64
	valid    *validator.Validate
	statuses []string
	allowed  map[string]bool
	log      *zap.Logger
}

func NewProblemAPI(cfg *Config, repo ProblemRepository, log *zap.Logger, opts ...Option) *ProblemAPI {
	if repo == nil || cfg == nil {
		return nil
	}
	if log == nil {
		log = zap.NewNop()
	}

	api := &ProblemAPI{
		httpSrv: &http.Server{
			Addr:              cfg.ListenAddr(),
			ReadHeaderTimeout: 10 * time.Second,
		},
		repo:     repo,
		valid:    validator.New(),
		statuses: cfg.Statuses,
		allowed:  make(map[string]bool, len(cfg.Statuses)),
		log:      log,
	}
	if len(api.statuses) == 0 {
		api.statuses = models.DefaultStatuses
	}
	for _, s := range api.statuses {
		api.allowed[s] = true
	}
	for _, opt := range opts {
		opt(api)
	}

	api.configRoutes(cfg.CORSOrigins)
	return api
}

func (api *ProblemAPI) Handler() http.Handler {
	return api.httpSrv.Handler
}

func (api *ProblemAPI) Start() error {
	if api.httpSrv == nil {
		return errors.ErrInternalServer
	}
	if err := api.httpSrv.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (api *ProblemAPI) Shutdown(ctx context.Context) error {
	return api.httpSrv.Shutdown(ctx)
}

func (api *ProblemAPI) configRoutes(origins []string) {
	router := gin.New()
	router.Use(gin.Recovery(), RequestLogger(api.log))

	corsCfg := cors.DefaultConfig()
	if len(origins) == 0 {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = origins
	}
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Content-Encoding", "Accept-Encoding")
	router.Use(cors.New(corsCfg))
	router.Use(GzipRequestDecompress(), GzipResponseCompress())

	router.HandleMethodNotAllowed = true
	router.NoMethod(func(ctx *gin.Context) {
		ctx.JSON(http.StatusMethodNotAllowed, gin.H{"error": "method not allowed"})
	})
	router.NoRoute(func(ctx *gin.Context) {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "route not found"})
	})

	problems := router.Group("/problems")
	{
		problems.GET("", api.getProblems)
		problems.GET("/:problemID", api.getProblemByID)
		problems.POST("", api.createProblem)
		problems.PUT("/updatestatus/:problemID", api.updateStatus)
		problems.DELETE("/:problemID", api.deleteProblem)
	}

	api.httpSrv.Handler = router
}

func (api *ProblemAPI) getProblems(ctx *gin.Context) {
	reqCtx := ctx.Request.Context()
	if api.cache != nil {
		list, ok, err := api.cache.GetList(reqCtx)
		if err != nil {
			api.log.Warn("list cache read failed", zap.Error(err))
		} else if ok {
			ctx.JSON(http.StatusOK, list)
			return
		}
	}

	v, err, _ := api.listOnce.Do("list", func() (interface{}, error) {
		// joined callers must not fail because the first one went away
		qctx, cancel := context.WithTimeout(context.WithoutCancel(reqCtx), listTimeout)
		defer cancel()

		gen := api.listGen.Load()
		list, err := api.repo.ListProblems(qctx)
		if err != nil {
			return nil, err
		}
		api.storeList(qctx, gen, list)
		return list, nil
	})
	if err != nil {
		api.log.Error("list problems failed", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": errors.ErrInternalServer.Error()})
		return
	}
	list := v.([]models.Problem)
	if list == nil {
		list = []models.Problem{}
	}
	ctx.JSON(http.StatusOK, list)
}

func (api *ProblemAPI) getProblemByID(ctx *gin.Context) {
	id := ctx.Param("problemID")
	problem, err := api.repo.GetProblemByID(ctx.Request.Context(), id)
	if err != nil {
		api.writeRepoError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, problem)
}

func (api *ProblemAPI) createProblem(ctx *gin.Context) {
	var req models.CreateProblemRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": errors.ErrBadRequest.Error()})
		return
	}
	if err := api.valid.Struct(req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": validationErrorToErrorResponse(err).Error()})
		return
	}

	// only updates are held to the allowed list
	status := req.Status
	if status == "" {
		status = api.statuses[0]
	}

	var deadline *string
	if req.DeadlineDate != nil && strings.TrimSpace(*req.DeadlineDate) != "" {
		d, err := models.ParseDate(*req.DeadlineDate)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": errors.ErrInvalidDeadline.Error()})
			return
		}
		formatted := models.FormatDate(d)
		deadline = &formatted
	}

	problem := models.Problem{
		Title:        req.Title,
		Topic:        req.Topic,
		Difficulty:   *req.Difficulty,
		Status:       status,
		DeadlineDate: deadline,
	}
	if err := api.repo.CreateProblem(ctx.Request.Context(), &problem); err != nil {
		api.writeRepoError(ctx, err)
		return
	}
	api.invalidateList(ctx.Request.Context())

	ctx.Header("Location", "/problems/"+problem.ID)
	ctx.JSON(http.StatusCreated, problem)
}

func (api *ProblemAPI) updateStatus(ctx *gin.Context) {
	id := ctx.Param("problemID")
	var req models.UpdateStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": errors.ErrStatusRequired.Error()})
		return
	}
	if err := api.valid.Struct(req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": validationErrorToErrorResponse(err).Error()})
		return
	}
	if !api.allowed[req.Status] {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": api.invalidStatusMessage()})
		return
	}

	reqCtx := ctx.Request.Context()
	if err := api.repo.UpdateStatus(reqCtx, id, req.Status); err != nil {
		api.writeRepoError(ctx, err)
		return
	}
	api.invalidateList(reqCtx)

	problem, err := api.repo.GetProblemByID(reqCtx, id)
	if err != nil {
		api.writeRepoError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, problem)
}

func (api *ProblemAPI) deleteProblem(ctx *gin.Context) {
	id := ctx.Param("problemID")
	if err := api.repo.DeleteProblem(ctx.Request.Context(), id); err != nil {
		api.writeRepoError(ctx, err)
		return
	}
	api.invalidateList(ctx.Request.Context())
	ctx.Status(http.StatusNoContent)
}

func (api *ProblemAPI) writeRepoError(ctx *gin.Context, err error) {
	if stderrors.Is(err, errors.ErrNotFound) {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Problem not found"})
		return
	}
	api.log.Error("repository call failed", zap.String("path", ctx.FullPath()), zap.Error(err))
	ctx.JSON(http.StatusInternalServerError, gin.H{"error": errors.ErrInternalServer.Error()})
}

// storeList caches list unless a write happened since gen was read. A write
// landing between the check and SetList is caught by the second check.
func (api *ProblemAPI) storeList(ctx context.Context, gen uint64, list []models.Problem) {
	if api.cache == nil || api.listGen.Load() != gen {
		return
	}
	if err := api.cache.SetList(ctx, list); err != nil {
		api.log.Warn("list cache write failed", zap.Error(err))
		return
	}
	if api.listGen.Load() != gen {
		if err := api.cache.Invalidate(ctx); err != nil {
			api.log.Warn("list cache invalidation failed", zap.Error(err))
		}
	}
}

func (api *ProblemAPI) invalidateList(ctx context.Context) {
	api.listGen.Add(1)
	// later reads must not join a list query that started before this write
	api.listOnce.Forget("list")
	if api.cache == nil {
		return
	}
	if err := api.cache.Invalidate(ctx); err != nil {
		api.log.Warn("list cache invalidation failed", zap.Error(err))
	}
}

func (api *ProblemAPI) invalidStatusMessage() string {
	return fmt.Sprintf("%s. Allowed values: %s", errors.ErrInvalidStatus.Error(), strings.Join(api.statuses, ", "))
}

func validationErrorToErrorResponse(err error) error {
	if verrs, ok := err.(validator.ValidationErrors); ok {
		for _, verr := range verrs {
			switch verr.Field() {
			case "Title":
				return errors.ErrTitleRequired
			case "Topic":
				return errors.ErrInvalidTopic
			case "Difficulty":
				return errors.ErrInvalidDifficulty
			case "Status":
				if verr.Tag() == "required" {
					return errors.ErrStatusRequired
				}
				return errors.ErrInvalidStatus
			}
		}
	}
	return errors.ErrValidationFailed
}
