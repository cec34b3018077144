package web

import (
	"context"
	"io"
	"net"
	"net/http"
	"path/filepath"
	"strconv"

	"gacha-system/config"
	"gacha-system/logger"
	"gacha-system/storage"
	"gacha-system/util/common"
	"gacha-system/web/controller"
	"gacha-system/web/job"
	"gacha-system/web/service"

	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
)

type Server struct {
	httpServer *http.Server
	listener   net.Listener

	gameConfig *config.GameConfig
	store      *storage.LocalStore

	userService     *service.UserService
	acquireService  *service.AcquireService
	prefetchService *service.PrefetchService
	viewService     *service.ViewService
	settleService   *service.SettleService
	gachaService    *service.GachaService
	systemService   *service.SystemService
	serverService   *service.ServerService
	tasks           *service.TaskQueue

	gacha  *controller.GachaController
	user   *controller.UserController
	system *controller.SystemController
	admin  *controller.AdminController

	cron *cron.Cron

	ctx    context.Context
	cancel context.CancelFunc
}

func NewServer(gameConfig *config.GameConfig, store *storage.LocalStore) *Server {
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		gameConfig: gameConfig,
		store:      store,
		ctx:        ctx,
		cancel:     cancel,
	}
}

func (s *Server) initServices() {
	s.tasks = service.NewTaskQueue(4, 256)
	s.userService = service.NewUserService(s.gameConfig)
	s.acquireService = service.NewAcquireService(s.store)
	s.prefetchService = service.NewPrefetchService(s.gameConfig, s.acquireService)
	s.viewService = service.NewViewService(s.gameConfig, s.store)
	s.settleService = service.NewSettleService(s.gameConfig, s.userService, s.viewService, s.tasks)
	s.gachaService = service.NewGachaService(s.gameConfig, s.userService, s.prefetchService, s.acquireService, s.settleService, s.tasks)
	s.systemService = &service.SystemService{}
	s.serverService = service.NewServerService(s.userService)
}

func (s *Server) initRouter() (*gin.Engine, error) {
	if config.IsDebug() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.DefaultWriter = io.Discard
		gin.DefaultErrorWriter = io.Discard
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.Default()

	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	cookieStore := cookie.NewStore([]byte(config.GetSessionSecret()))
	engine.Use(sessions.Sessions("gacha-system", cookieStore))

	// the web client may live on another origin
	engine.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, X-User-ID")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})

	// stored assets resolve against this process by default
	engine.Static("/images", filepath.Join(s.store.Root(), "images"))

	g := engine.Group("/")

	s.gacha = controller.NewGachaController(g, s.gachaService)
	s.user = controller.NewUserController(g, s.gameConfig, s.userService, s.gachaService)
	s.system = controller.NewSystemController(g, s.viewService, s.systemService)
	s.admin = controller.NewAdminController(g, s.userService, s.systemService, s.serverService)

	return engine, nil
}

func (s *Server) startTask() {
	s.cron.AddJob("@every 1h", job.NewClearExpiredJob(s.prefetchService))
}

func (s *Server) Start() (err error) {
	defer func() {
		if err != nil {
			s.Stop()
		}
	}()

	s.cron = cron.New(cron.WithSeconds())
	s.cron.Start()

	s.initServices()

	engine, err := s.initRouter()
	if err != nil {
		return err
	}

	listenAddr := net.JoinHostPort(config.GetListen(), strconv.Itoa(config.GetPort()))
	listener, err := net.Listen("tcp", listenAddr)
	if err != nil {
		return err
	}
	s.listener = listener
	logger.Info("web server running HTTP on ", listener.Addr())

	s.httpServer = &http.Server{
		Handler: engine,
	}

	go func() {
		s.httpServer.Serve(listener)
	}()

	s.startTask()

	return nil
}

func (s *Server) Stop() error {
	s.cancel()
	if s.cron != nil {
		s.cron.Stop()
	}
	if s.tasks != nil {
		s.tasks.Stop()
	}
	var err1 error
	var err2 error
	if s.httpServer != nil {
		err1 = s.httpServer.Shutdown(s.ctx)
	}
	if s.listener != nil {
		err2 = s.listener.Close()
	}
	return common.Combine(err1, err2)
}

func (s *Server) GetCtx() context.Context {
	return s.ctx
}

func (s *Server) GetCron() *cron.Cron {
	return s.cron
}
