package boot

import (
	"log"
	"time"

	"exobooking/src/config"
	"exobooking/src/db"
	"exobooking/src/ledger"
	"exobooking/src/lib"
	"exobooking/src/models"
	"exobooking/src/reconcile"
	"exobooking/src/reservations"
	"exobooking/src/types"

	"gorm.io/gorm"
)

func InitDb(cfg *config.Config) *gorm.DB {
	db, err := db.Open(cfg.DBDriver, cfg.DSN)
	if err != nil {
		log.Fatalf("error connecting to database: %s", err.Error())
	}
	if err := Migrate(db); err != nil {
		log.Fatalf("error migration: %s", err.Error())
	}
	return db
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Tour{},
		&models.InventoryRecord{},
		&models.Reservation{},
	)
}

// InitLedger picks the ledger store. The redis backend keeps counters in
// redis while reservations stay in the database.
func InitLedger(cfg *config.Config, db *gorm.DB) *ledger.Ledger {
	switch types.LedgerBackend(cfg.LedgerBackend) {
	case types.LEDGER_REDIS:
		rdb, err := lib.GetRedisClient(cfg.RedisURL)
		if err != nil {
			log.Fatalf("error connecting to redis: %s", err.Error())
		}
		log.Println("Inventory ledger backend: redis")
		return ledger.New(ledger.NewRedisStore(rdb))
	case types.LEDGER_SQL, "":
		log.Println("Inventory ledger backend: sql")
		return ledger.New(ledger.NewGormStore(db))
	default:
		log.Fatalf("unknown LEDGER_BACKEND %q", cfg.LedgerBackend)
	}
	return nil
}

// InitPublisher returns the kafka publisher when a broker is configured and
// a log-only publisher otherwise. The returned func flushes on shutdown.
func InitPublisher(cfg *config.Config) (reservations.EventPublisher, func()) {
	if cfg.KafkaBroker == "" {
		return lib.LogPublisher{}, func() {}
	}
	go lib.KafkaCreateTopics(cfg.KafkaBroker,
		reservations.EVENT_RESERVATION_CREATED,
		reservations.EVENT_RESERVATION_STATUS_CHANGED,
		reservations.EVENT_ORPHANED_CLAIM,
	)
	p, err := lib.NewKafkaPublisher(cfg.KafkaBroker, "exobooking")
	if err != nil {
		log.Printf("Falling back to log publisher: %s\n", err.Error())
		return lib.LogPublisher{}, func() {}
	}
	return p, func() { p.Close(5 * time.Second) }
}

func InitScheduler(rec *reconcile.Reconciler, every time.Duration) {
	sched, err := lib.GetScheduler()
	if err != nil {
		log.Println("An error has occurred. Check logs for info")
		return
	}
	if _, err := rec.Schedule(every); err != nil {
		log.Printf("Error scheduling inventory audit: %s\n", err.Error())
		return
	}
	log.Println("Jobs in queue:", len(sched.Jobs()))
	sched.Start()
}

func StopScheduler() {
	lib.StopScheduler()
}
