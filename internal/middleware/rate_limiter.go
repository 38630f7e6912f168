package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/desiigner97/farmaclinic-margenes/internal/apierror"
)

// limiter is a per-IP sliding-window counter. One instance backs each
// configured limit so login and general API throttling stay independent.
type limiter struct {
	limit  int
	window time.Duration

	mu       sync.Mutex
	ventanas map[string]*ventana
}

type ventana struct {
	count int
	hasta time.Time
}

func newLimiter(limit int, window time.Duration) *limiter {
	l := &limiter{limit: limit, window: window, ventanas: make(map[string]*ventana)}
	go l.purgar()
	return l
}

func (l *limiter) permitir(ip string) (bool, time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	v, ok := l.ventanas[ip]
	if !ok || now.After(v.hasta) {
		v = &ventana{hasta: now.Add(l.window)}
		l.ventanas[ip] = v
	}
	v.count++
	return v.count <= l.limit, v.hasta
}

// purgar drops expired windows so IPs that never return do not
// accumulate forever.
func (l *limiter) purgar() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		now := time.Now()
		l.mu.Lock()
		purged := 0
		for ip, v := range l.ventanas {
			if now.After(v.hasta) {
				delete(l.ventanas, ip)
				purged++
			}
		}
		restantes := len(l.ventanas)
		l.mu.Unlock()
		if purged > 0 {
			log.Debug().Int("purged", purged).Int("remaining", restantes).Msg("rate limiter window purge")
		}
	}
}

// LoginRateLimiter limits login attempts to 20 per minute per IP.
func LoginRateLimiter() gin.HandlerFunc {
	l := newLimiter(20, time.Minute)
	return func(c *gin.Context) {
		if ok, _ := l.permitir(c.ClientIP()); !ok {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New("Demasiados intentos de login. Intente en 1 minuto."))
			return
		}
		c.Next()
	}
}

// RateLimiter throttles general API traffic per IP.
func RateLimiter(limit int, window time.Duration) gin.HandlerFunc {
	l := newLimiter(limit, window)
	return func(c *gin.Context) {
		ok, hasta := l.permitir(c.ClientIP())
		if !ok {
			c.Header("Retry-After", hasta.Format(time.RFC1123))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New("Demasiadas solicitudes. Intente nuevamente en un momento."))
			return
		}
		c.Next()
	}
}
