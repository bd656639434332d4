package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/barberflow/internal/domain/scheduling"
	"github.com/BruksfildServices01/barberflow/internal/httperr"
	"github.com/BruksfildServices01/barberflow/internal/models"
)

// status que ocupam intervalo/fila — espelha Status.IsOccupying
var occupyingStatuses = []string{"pending", "scheduled", "confirmed", "ongoing"}

type SchedulingGormRepository struct {
	db *gorm.DB
}

func NewSchedulingGormRepository(db *gorm.DB) *SchedulingGormRepository {
	return &SchedulingGormRepository{db: db}
}

// storeErr traduz falhas de infra (timeout, conexão) para o erro
// re-tentável da taxonomia. Not-found passa direto.
func storeErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return httperr.ErrStoreUnavailable("store_timeout")
	}
	var be httperr.BusinessError
	if errors.As(err, &be) {
		return err
	}
	return httperr.ErrStoreUnavailable("store_unavailable")
}

// --------------------------------------------------
// Barbershop
// --------------------------------------------------

func (r *SchedulingGormRepository) GetBarbershopByID(
	ctx context.Context,
	id uint,
) (*models.Barbershop, error) {

	var shop models.Barbershop
	if err := r.db.WithContext(ctx).First(&shop, id).Error; err != nil {
		return nil, storeErr(err)
	}
	return &shop, nil
}

func (r *SchedulingGormRepository) GetBarbershopBySlug(
	ctx context.Context,
	slug string,
) (*models.Barbershop, error) {

	var shop models.Barbershop
	if err := r.db.WithContext(ctx).
		Where("slug = ?", slug).
		First(&shop).Error; err != nil {
		return nil, storeErr(err)
	}
	return &shop, nil
}

// --------------------------------------------------
// Catalog
// --------------------------------------------------

func (r *SchedulingGormRepository) GetCatalog(
	ctx context.Context,
	barbershopID uint,
) (*domain.Catalog, error) {

	var services []models.BarberService
	if err := r.db.WithContext(ctx).
		Where("barbershop_id = ? AND active = true", barbershopID).
		Find(&services).Error; err != nil {
		return nil, storeErr(err)
	}

	var addOns []models.AddOn
	if err := r.db.WithContext(ctx).
		Where("barbershop_id = ? AND active = true", barbershopID).
		Find(&addOns).Error; err != nil {
		return nil, storeErr(err)
	}

	return domain.NewCatalog(services, addOns), nil
}

// --------------------------------------------------
// Barbers
// --------------------------------------------------

func (r *SchedulingGormRepository) ListActiveBarbers(
	ctx context.Context,
	barbershopID uint,
) ([]models.User, error) {

	var barbers []models.User
	if err := r.db.WithContext(ctx).
		Where("barbershop_id = ? AND active = true AND role IN ('owner', 'barber')", barbershopID).
		Order("id ASC").
		Find(&barbers).Error; err != nil {
		return nil, storeErr(err)
	}
	return barbers, nil
}

// --------------------------------------------------
// Client
// --------------------------------------------------

func (r *SchedulingGormRepository) GetOrCreateClient(
	ctx context.Context,
	barbershopID uint,
	name string,
	phone string,
	email string,
) (*models.Client, error) {

	var client models.Client
	err := r.db.WithContext(ctx).
		Where("barbershop_id = ? AND phone = ?", barbershopID, phone).
		First(&client).Error

	if err == nil {
		return &client, nil
	}

	client = models.Client{
		BarbershopID: barbershopID,
		Name:         name,
		Phone:        phone,
		Email:        email,
	}

	if err := r.db.WithContext(ctx).Create(&client).Error; err != nil {
		return nil, storeErr(err)
	}

	return &client, nil
}

// --------------------------------------------------
// Working hours
// --------------------------------------------------

func (r *SchedulingGormRepository) GetWorkingHours(
	ctx context.Context,
	barberID uint,
	weekday int,
) (*models.WorkingHours, error) {

	var wh models.WorkingHours
	if err := r.db.WithContext(ctx).
		Where("barber_id = ? AND weekday = ?", barberID, weekday).
		First(&wh).Error; err != nil {
		return nil, storeErr(err)
	}

	return &wh, nil
}

// --------------------------------------------------
// Occupancy
// --------------------------------------------------

func (r *SchedulingGormRepository) ListDayAppointments(
	ctx context.Context,
	barberID uint,
	dayStart time.Time,
	dayEnd time.Time,
) ([]models.Appointment, error) {

	var apps []models.Appointment
	if err := r.db.WithContext(ctx).
		Where(
			"barber_id = ? AND status IN ? AND date >= ? AND date < ?",
			barberID, occupyingStatuses, dayStart, dayEnd,
		).
		Order("start_time ASC NULLS LAST").
		Find(&apps).Error; err != nil {
		return nil, storeErr(err)
	}

	return apps, nil
}

func (r *SchedulingGormRepository) ListQueue(
	ctx context.Context,
	barberID uint,
	dayStart time.Time,
	dayEnd time.Time,
) ([]models.Appointment, error) {

	var apps []models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Client").
		Where(
			"barber_id = ? AND type = 'queue' AND status IN ? AND queue_position IS NOT NULL AND date >= ? AND date < ?",
			barberID, occupyingStatuses, dayStart, dayEnd,
		).
		Order("queue_position ASC").
		Find(&apps).Error; err != nil {
		return nil, storeErr(err)
	}

	return apps, nil
}

func (r *SchedulingGormRepository) CountWaiting(
	ctx context.Context,
	barberID uint,
	dayStart time.Time,
	dayEnd time.Time,
) (int64, error) {

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where(
			"barber_id = ? AND type = 'queue' AND status IN ('pending', 'scheduled') AND queue_position > 0 AND date >= ? AND date < ?",
			barberID, dayStart, dayEnd,
		).
		Count(&count).Error; err != nil {
		return 0, storeErr(err)
	}

	return count, nil
}

// --------------------------------------------------
// Escrita atômica
// --------------------------------------------------

// lockBarberDay serializa todo escritor da partição barbeiro/dia com um
// advisory lock transacional. Locks de linha não servem aqui: o conflito
// que importa — último slot livre, fila vazia — ainda não tem linha para
// travar, e dois escritores passariam juntos pela revalidação.
func lockBarberDay(tx *gorm.DB, barberID uint, day time.Time) error {
	return tx.Exec(
		"SELECT pg_advisory_xact_lock(?, ?)",
		int32(barberID),
		int32(day.Unix()/86400),
	).Error
}

// CreateScheduled revalida a ocupação dentro da transação da escrita,
// sob o lock da partição: o segundo escritor só lê depois do primeiro
// commitar, enxerga a linha nova e recebe conflito.
func (r *SchedulingGormRepository) CreateScheduled(
	ctx context.Context,
	ap *models.Appointment,
) error {

	if ap.StartTime == nil || ap.EndTime == nil {
		return httperr.ErrValidation("missing_time")
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockBarberDay(tx, ap.BarberID, ap.Date); err != nil {
			return err
		}

		var count int64
		if err := tx.
			Model(&models.Appointment{}).
			Where(
				"barber_id = ? AND type = 'scheduled' AND status IN ? AND start_time < ? AND end_time > ?",
				ap.BarberID,
				occupyingStatuses,
				ap.EndTime,
				ap.StartTime,
			).
			Count(&count).Error; err != nil {
			return err
		}

		if count > 0 {
			return httperr.ErrConflict("time_conflict")
		}

		return tx.Create(ap).Error
	})

	return storeErr(err)
}

// CreateQueued insere na posição pedida deslocando quem vem depois,
// tudo sob o lock da partição barbeiro/dia.
func (r *SchedulingGormRepository) CreateQueued(
	ctx context.Context,
	ap *models.Appointment,
	position int,
) error {

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockBarberDay(tx, ap.BarberID, ap.Date); err != nil {
			return err
		}

		if err := tx.
			Model(&models.Appointment{}).
			Where(
				"barber_id = ? AND type = 'queue' AND status IN ? AND queue_position >= ? AND date >= ? AND date < ?",
				ap.BarberID, occupyingStatuses, position, ap.Date, ap.Date.Add(24*time.Hour),
			).
			Update("queue_position", gorm.Expr("queue_position + 1")).Error; err != nil {
			return err
		}

		pos := position
		ap.QueuePosition = &pos

		return tx.Create(ap).Error
	})

	return storeErr(err)
}

// UpdateScheduledTime grava a nova janela de um agendamento fixo
// revalidando o conflito na mesma transação, com auto-exclusão —
// o espelho de CreateScheduled para a remarcação.
func (r *SchedulingGormRepository) UpdateScheduledTime(
	ctx context.Context,
	ap *models.Appointment,
) error {

	if ap.StartTime == nil || ap.EndTime == nil {
		return httperr.ErrValidation("missing_time")
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockBarberDay(tx, ap.BarberID, ap.Date); err != nil {
			return err
		}

		var count int64
		if err := tx.
			Model(&models.Appointment{}).
			Where(
				"barber_id = ? AND id <> ? AND type = 'scheduled' AND status IN ? AND start_time < ? AND end_time > ?",
				ap.BarberID,
				ap.ID,
				occupyingStatuses,
				ap.EndTime,
				ap.StartTime,
			).
			Count(&count).Error; err != nil {
			return err
		}

		if count > 0 {
			return httperr.ErrConflict("time_conflict")
		}

		return tx.Save(ap).Error
	})

	return storeErr(err)
}

// --------------------------------------------------
// State change
// --------------------------------------------------

func (r *SchedulingGormRepository) GetAppointmentForShop(
	ctx context.Context,
	appointmentID uint,
	barbershopID uint,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Where("id = ? AND barbershop_id = ?", appointmentID, barbershopID).
		First(&ap).Error; err != nil {
		return nil, storeErr(err)
	}

	return &ap, nil
}

func (r *SchedulingGormRepository) UpdateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return storeErr(r.db.WithContext(ctx).Save(ap).Error)
}

// RenumberQueue refaz as posições 1..N do barbeiro/dia num único
// UPDATE ordenado — nunca updates independentes por linha, para que
// duas conclusões concorrentes não dupliquem nem pulem posições.
func (r *SchedulingGormRepository) RenumberQueue(
	ctx context.Context,
	barberID uint,
	dayStart time.Time,
	dayEnd time.Time,
) error {

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockBarberDay(tx, barberID, dayStart); err != nil {
			return err
		}

		return tx.Exec(`
            UPDATE appointments
            SET queue_position = ranked.rn
            FROM (
                SELECT id, ROW_NUMBER() OVER (ORDER BY queue_position ASC, created_at ASC) AS rn
                FROM appointments
                WHERE barber_id = ?
                  AND type = 'queue'
                  AND status IN ('pending', 'scheduled')
                  AND queue_position > 0
                  AND date >= ? AND date < ?
            ) ranked
            WHERE appointments.id = ranked.id
        `, barberID, dayStart, dayEnd).Error
	})

	return storeErr(err)
}

// --------------------------------------------------
// Listagens
// --------------------------------------------------

func (r *SchedulingGormRepository) ListAppointmentsForPeriod(
	ctx context.Context,
	barberID uint,
	start time.Time,
	end time.Time,
) ([]models.Appointment, error) {

	var apps []models.Appointment

	err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Service").
		Where(
			"barber_id = ? AND date >= ? AND date < ?",
			barberID,
			start,
			end,
		).
		Order("start_time ASC NULLS LAST, queue_position ASC").
		Find(&apps).Error

	if err != nil {
		return nil, storeErr(err)
	}

	return apps, nil
}

// Compile-time check
var _ domain.Repository = (*SchedulingGormRepository)(nil)
