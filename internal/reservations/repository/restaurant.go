package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	reserrors "tablebook/internal/reservations/errors"
	"tablebook/pkg/config"
	mongotx "tablebook/pkg/db/mongo"
	"tablebook/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "restaurants"
)

type mongoRestaurantRepository struct {
	cfg        *config.Config
	db         *mongo.Database
	collection *mongo.Collection
	txManager  mongotx.TransactionManager
}

type RestaurantRepository interface {
	Create(ctx context.Context, restaurant *model.Restaurant) error
	FindByID(ctx context.Context, id string) (*model.Restaurant, error)
	FindAll(ctx context.Context, limit int, offset int64) ([]*model.Restaurant, error)
	Count(ctx context.Context) (int64, error)
	AppendReservation(ctx context.Context, restaurantID, tableID string, res *model.Reservation) error
	RemoveReservation(ctx context.Context, restaurantID, tableID, reservationID string) error
	FindGuestReservations(ctx context.Context, guestRef, date string) ([]model.Reservation, error)
	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

func NewMongoRestaurantRepository(cfg *config.Config) RestaurantRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoRestaurantRepository{
		cfg:        cfg,
		db:         db,
		collection: db.Collection(CollectionName),
		txManager:  mongotx.NewTransactionManager(cfg.Client.Mongo),
	}
}

// withTimeout wraps the context with a timeout if not already in a transaction.
// When inside a transaction (SessionContext), returns the original context
// unchanged with a no-op cancel function, as wrapping a SessionContext would
// break transaction semantics.
func (r *mongoRestaurantRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}

	deadline, hasDeadline := ctx.Deadline()
	if !hasDeadline {
		return context.WithTimeout(ctx, timeout)
	}

	remaining := time.Until(deadline)
	if remaining < timeout {
		return context.WithTimeout(ctx, remaining)
	}

	return context.WithTimeout(ctx, timeout)
}

func (r *mongoRestaurantRepository) Create(ctx context.Context, restaurant *model.Restaurant) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	if restaurant.ID == "" {
		restaurant.ID = primitive.NewObjectID().Hex()
	}
	for i := range restaurant.Tables {
		if restaurant.Tables[i].ID == "" {
			restaurant.Tables[i].ID = primitive.NewObjectID().Hex()
		}
		if restaurant.Tables[i].Reservations == nil {
			restaurant.Tables[i].Reservations = []model.Reservation{}
		}
	}
	restaurant.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)

	_, err := r.collection.InsertOne(ctx, restaurant)
	if err != nil {
		return fmt.Errorf("failed to create restaurant: %w", err)
	}

	return nil
}

func (r *mongoRestaurantRepository) FindByID(ctx context.Context, id string) (*model.Restaurant, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return nil, fmt.Errorf("%w: %s", reserrors.ErrInvalidID, id)
	}

	filter := bson.M{"_id": id}

	var restaurant model.Restaurant
	err := r.collection.FindOne(ctx, filter).Decode(&restaurant)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, reserrors.ErrRestaurantNotFound
		}
		return nil, fmt.Errorf("failed to find restaurant: %w", err)
	}

	return &restaurant, nil
}

func (r *mongoRestaurantRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Restaurant, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "name", Value: 1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find restaurants: %w", err)
	}
	defer cursor.Close(ctx)

	var restaurants []*model.Restaurant
	if err = cursor.All(ctx, &restaurants); err != nil {
		return nil, fmt.Errorf("failed to decode restaurants: %w", err)
	}

	return restaurants, nil
}

func (r *mongoRestaurantRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count restaurants: %w", err)
	}

	return count, nil
}

// AppendReservation pushes the reservation onto the table's embedded array
// with a filter that only matches when no stored reservation on that table
// overlaps the new one on the same date. The filter and push execute as one
// document-level atomic update, so two racing writers cannot both succeed.
func (r *mongoRestaurantRepository) AppendReservation(ctx context.Context, restaurantID, tableID string, res *model.Reservation) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	if res.ID == "" {
		res.ID = primitive.NewObjectID().Hex()
	}
	res.EndHour = res.StartHour + res.DurationHours
	res.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)

	filter := bson.M{
		"_id": restaurantID,
		"tables": bson.M{
			"$elemMatch": bson.M{
				"_id": tableID,
				"reservations": bson.M{
					"$not": bson.M{
						"$elemMatch": bson.M{
							"date":       res.Date,
							"start_hour": bson.M{"$lt": res.EndHour},
							"end_hour":   bson.M{"$gt": res.StartHour},
						},
					},
				},
			},
		},
	}

	update := bson.M{
		"$push": bson.M{"tables.$.reservations": res},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to append reservation: %w", err)
	}

	// The caller has already resolved restaurant and table, so a miss here
	// means the overlap guard rejected the slot.
	if result.ModifiedCount == 0 {
		return reserrors.ErrSlotTaken
	}

	return nil
}

func (r *mongoRestaurantRepository) RemoveReservation(ctx context.Context, restaurantID, tableID, reservationID string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	if _, err := primitive.ObjectIDFromHex(reservationID); err != nil {
		return fmt.Errorf("%w: %s", reserrors.ErrInvalidID, reservationID)
	}

	filter := bson.M{
		"_id":        restaurantID,
		"tables._id": tableID,
	}

	update := bson.M{
		"$pull": bson.M{
			"tables.$.reservations": bson.M{"_id": reservationID},
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to remove reservation: %w", err)
	}

	if result.MatchedCount == 0 {
		return reserrors.ErrTableNotFound
	}

	if result.ModifiedCount == 0 {
		return reserrors.ErrReservationNotFound
	}

	return nil
}

// FindGuestReservations returns all of a guest's reservations on a date
// across every restaurant and table. Used for the double-booking and daily
// limit checks inside the admission transaction.
func (r *mongoRestaurantRepository) FindGuestReservations(ctx context.Context, guestRef, date string) ([]model.Reservation, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"tables.reservations": bson.M{
				"$elemMatch": bson.M{"guest_ref": guestRef, "date": date},
			},
		}}},
		{{Key: "$unwind", Value: "$tables"}},
		{{Key: "$unwind", Value: "$tables.reservations"}},
		{{Key: "$match", Value: bson.M{
			"tables.reservations.guest_ref": guestRef,
			"tables.reservations.date":      date,
		}}},
		{{Key: "$replaceRoot", Value: bson.M{"newRoot": "$tables.reservations"}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to find guest reservations: %w", err)
	}
	defer cursor.Close(ctx)

	var reservations []model.Reservation
	if err = cursor.All(ctx, &reservations); err != nil {
		return nil, fmt.Errorf("failed to decode guest reservations: %w", err)
	}

	return reservations, nil
}

func (r *mongoRestaurantRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}
