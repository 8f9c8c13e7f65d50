package configs

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

var RDB *redis.Client

// ConnectRedis membuka koneksi ke REDIS_ADDR. Tanpa alamat, atau kalau ping
// gagal, hasilnya nil dan summary dihitung ulang setiap request.
func ConnectRedis() *redis.Client {
	addr := GetEnv("REDIS_ADDR")
	if addr == "" {
		log.Println("⚠️ REDIS_ADDR belum diset, cache summary nonaktif")
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: GetEnv("REDIS_PASSWORD"),
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("[WARN] Redis %s tidak bisa dihubungi: %v", addr, err)
		_ = client.Close()
		return nil
	}

	log.Println("✅ Redis terkoneksi.")
	RDB = client
	return client
}
