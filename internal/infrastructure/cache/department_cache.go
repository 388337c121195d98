// Package cache decora repositorios de lectura frecuente con Redis.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/jhoicas/hrims-stock/internal/domain/entity"
	"github.com/jhoicas/hrims-stock/internal/domain/repository"
)

var _ repository.DepartmentRepository = (*DepartmentCache)(nil)

const (
	keyPrefix = "hrims:stock:department:"
	// notMapped se cachea para departamentos sin mapeo; evita consultar la base en cada solicitud.
	notMapped = "-"
)

const (
	maxRetries      = 3
	minRetryBackoff = 100 * time.Millisecond
	maxRetryBackoff = 300 * time.Millisecond
	dialTimeout     = 5 * time.Second
	readTimeout     = 3 * time.Second
	writeTimeout    = 3 * time.Second
)

// Connect abre el cliente Redis y verifica la conexión con PING.
func Connect(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:            addr,
		Password:        password,
		DB:              db,
		MaxRetries:      maxRetries,
		MinRetryBackoff: minRetryBackoff,
		MaxRetryBackoff: maxRetryBackoff,
		DialTimeout:     dialTimeout,
		ReadTimeout:     readTimeout,
		WriteTimeout:    writeTimeout,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// DepartmentCache read-through sobre el repositorio de mapeos. Upsert y Delete escriben en la
// base y luego invalidan la clave. Un fallo de Redis degrada a lectura directa.
type DepartmentCache struct {
	next   repository.DepartmentRepository
	client redis.Cmdable
	ttl    time.Duration
	log    zerolog.Logger
}

// NewDepartmentCache envuelve next. ttl <= 0 usa 5 minutos.
func NewDepartmentCache(next repository.DepartmentRepository, client redis.Cmdable, ttl time.Duration, log zerolog.Logger) *DepartmentCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &DepartmentCache{next: next, client: client, ttl: ttl, log: log}
}

func key(department string) string { return keyPrefix + department }

func (c *DepartmentCache) FindWarehouseID(ctx context.Context, department string) (string, bool, error) {
	val, err := c.client.Get(ctx, key(department)).Result()
	switch {
	case err == nil:
		if val == notMapped {
			return "", false, nil
		}
		return val, true, nil
	case !errors.Is(err, redis.Nil):
		c.log.Warn().Err(err).Str("department", department).Msg("redis no disponible, leyendo mapeo desde la base")
	}

	id, found, err := c.next.FindWarehouseID(ctx, department)
	if err != nil {
		return "", false, err
	}
	stored := id
	if !found {
		stored = notMapped
	}
	if err := c.client.Set(ctx, key(department), stored, c.ttl).Err(); err != nil {
		c.log.Warn().Err(err).Str("department", department).Msg("no se pudo cachear el mapeo")
	}
	return id, found, nil
}

func (c *DepartmentCache) Upsert(ctx context.Context, m *entity.DepartmentMapping) error {
	if err := c.next.Upsert(ctx, m); err != nil {
		return err
	}
	c.invalidate(ctx, m.Department)
	return nil
}

func (c *DepartmentCache) Delete(ctx context.Context, department string) error {
	if err := c.next.Delete(ctx, department); err != nil {
		return err
	}
	c.invalidate(ctx, department)
	return nil
}

// List no se cachea: es una consulta administrativa.
func (c *DepartmentCache) List(ctx context.Context) ([]*entity.DepartmentMapping, error) {
	return c.next.List(ctx)
}

func (c *DepartmentCache) invalidate(ctx context.Context, department string) {
	if err := c.client.Del(ctx, key(department)).Err(); err != nil {
		c.log.Error().Err(err).Str("department", department).Msg("no se pudo invalidar el mapeo cacheado")
	}
}
