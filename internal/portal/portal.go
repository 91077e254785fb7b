// Package portal is the captive portal subsystem: an open AP plus an HTTP
// server that funnels every request to a local landing page.
package portal

import (
	"context"
	"html/template"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"cardputer_radio/internal/logger"
	"cardputer_radio/internal/radio"
	"cardputer_radio/internal/server"

	"github.com/gin-gonic/gin"
)

const (
	visitQueueSize  = 256
	shutdownTimeout = 3 * time.Second
)

const landingHTML = `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1"><title>{{.SSID}}</title></head>
<body>
<h1>{{.SSID}}</h1>
<p>You are connected to a local access point. No internet service is provided here.</p>
</body>
</html>`

// Portal implements radio.Portal. Start and Stop may be called from outside
// the main loop; visitor counts only change in Tick.
type Portal struct {
	driver radio.Driver
	addr   string
	log    *logger.Logger

	mu       sync.Mutex
	running  bool
	ssid     string
	srv      *server.Server
	visitors int

	visits chan struct{}
	// shown is read by the landing handler without taking mu, which Stop
	// holds while draining requests.
	shown atomic.Value
}

var _ radio.Portal = (*Portal)(nil)

// New returns a stopped portal that will serve on addr when started.
func New(driver radio.Driver, addr string, log *logger.Logger) *Portal {
	p := &Portal{
		driver: driver,
		addr:   addr,
		log:    logger.OrNop(log).Named("portal"),
		visits: make(chan struct{}, visitQueueSize),
	}
	p.shown.Store("")
	return p
}

// Handler builds the portal router. Unknown paths, including OS
// connectivity checks, redirect to the landing page.
func (p *Portal) Handler() http.Handler {
	r := gin.New()
	r.Use(gin.Recovery())
	r.SetHTMLTemplate(template.Must(template.New("landing").Parse(landingHTML)))

	r.GET("/", p.landing)
	r.NoRoute(func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/")
	})
	return r
}

func (p *Portal) landing(c *gin.Context) {
	select {
	case p.visits <- struct{}{}:
	default:
		// queue full; the visit is dropped rather than blocking the request
	}
	c.HTML(http.StatusOK, "landing", gin.H{"SSID": p.shown.Load().(string)})
}

// Start brings up the AP and the landing server. A bind failure is logged
// and leaves the portal stopped.
func (p *Portal) Start(ssid string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running {
		p.stopLocked()
	}

	p.driver.SetMode(radio.ModeAccessPoint)
	p.driver.StartAccessPoint(ssid)

	srv := &server.Server{}
	if err := srv.Start(p.addr, p.Handler()); err != nil {
		p.log.Errorw("portal_listen_failed", "err", err, "addr", p.addr)
		p.driver.DisconnectAccessPoint()
		p.driver.SetMode(radio.ModeOff)
		return
	}

	p.drainLocked()
	p.srv = srv
	p.ssid = ssid
	p.shown.Store(ssid)
	p.visitors = 0
	p.running = true
	p.log.Infow("portal_up", "ssid", ssid, "addr", srv.Addr())
}

func (p *Portal) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()
}

func (p *Portal) stopLocked() {
	if p.srv != nil {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		if err := p.srv.Shutdown(ctx); err != nil {
			p.log.Errorw("portal_shutdown_failed", "err", err)
		}
		cancel()
		p.srv = nil
	}
	if p.running {
		p.driver.DisconnectAccessPoint()
	}
	p.running = false
	p.ssid = ""
	p.shown.Store("")
}

// Tick folds queued landing page hits into the visitor count.
func (p *Portal) Tick() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.visitors += p.drainLocked()
}

func (p *Portal) drainLocked() int {
	n := 0
	for {
		select {
		case <-p.visits:
			n++
		default:
			return n
		}
	}
}

func (p *Portal) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

func (p *Portal) Visitors() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.visitors
}

func (p *Portal) SSID() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ssid
}

// Addr is the bound listener address while running.
func (p *Portal) Addr() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.srv == nil {
		return ""
	}
	return p.srv.Addr()
}
