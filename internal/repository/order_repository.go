package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"saheli-store/internal/models"
)

// MongoOrderRepository implementa OrderRepository sobre MongoDB.
type MongoOrderRepository struct {
	collection *mongo.Collection
}

func NewMongoOrderRepository(collection *mongo.Collection) *MongoOrderRepository {
	return &MongoOrderRepository{
		collection: collection,
	}
}

// notDeleted centraliza la exclusión de pedidos con borrado lógico.
// Toda lectura construye su filtro a través de esta función.
func notDeleted(filter bson.M) bson.M {
	filter["is_deleted"] = false
	return filter
}

// withoutReceiptPDF excluye el buffer del recibo de las proyecciones de
// lectura; solo GetReceipt lo carga.
func withoutReceiptPDF() bson.M {
	return bson.M{"receipt.pdf": 0}
}

// Create inserta un nuevo pedido.
func (r *MongoOrderRepository) Create(ctx context.Context, order *models.Order) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	order.ID = primitive.NewObjectID()
	if order.TrackingID == "" {
		order.TrackingID = uuid.NewString()
	}
	order.CreatedAt = time.Now()
	order.UpdatedAt = time.Now()
	order.IsDeleted = false

	_, err := r.collection.InsertOne(ctx, order)
	return err
}

// FindByID obtiene un pedido activo por ID, sin el buffer del recibo.
func (r *MongoOrderRepository) FindByID(ctx context.Context, id string) (*models.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	opts := options.FindOne().SetProjection(withoutReceiptPDF())

	var order models.Order
	err = r.collection.FindOne(ctx, notDeleted(bson.M{"_id": objID}), opts).Decode(&order)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	order.Derive()
	return &order, nil
}

// FindAll lista pedidos activos paginados, los más recientes primero, con el
// total para la paginación.
func (r *MongoOrderRepository) FindAll(ctx context.Context, page, pageSize int) ([]*models.Order, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}

	filter := notDeleted(bson.M{})

	// Contar total en paralelo
	totalCh := make(chan int64, 1)
	errCh := make(chan error, 1)

	go func() {
		total, err := r.collection.CountDocuments(ctx, filter)
		if err != nil {
			errCh <- err
			return
		}
		totalCh <- total
	}()

	findOptions := options.Find().
		SetProjection(withoutReceiptPDF()).
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64((page - 1) * pageSize)).
		SetLimit(int64(pageSize))

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var orders []*models.Order
	if err = cursor.All(ctx, &orders); err != nil {
		return nil, 0, err
	}

	for _, o := range orders {
		o.Derive()
	}

	var total int64
	select {
	case total = <-totalCh:
	case err := <-errCh:
		return orders, 0, err
	case <-ctx.Done():
		return orders, 0, ctx.Err()
	}

	return orders, total, nil
}

// FindByStatus lista pedidos activos con el estado exacto.
func (r *MongoOrderRepository) FindByStatus(ctx context.Context, status string, limit int) ([]*models.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if limit < 1 {
		limit = 10
	}

	findOptions := options.Find().
		SetProjection(withoutReceiptPDF()).
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, notDeleted(bson.M{"order_status": status}), findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var orders []*models.Order
	if err = cursor.All(ctx, &orders); err != nil {
		return nil, err
	}

	for _, o := range orders {
		o.Derive()
	}
	return orders, nil
}

// Update aplica el allow-list de campos y devuelve el pedido actualizado.
// deliveredAt se fija una única vez cuando el estado pasa a Delivered.
func (r *MongoOrderRepository) Update(ctx context.Context, id string, update models.OrderStatusUpdate) (*models.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	set := bson.M{"updated_at": time.Now()}
	if update.OrderStatus != nil {
		set["order_status"] = *update.OrderStatus
	}
	if update.PaymentStatus != nil {
		set["payment_status"] = *update.PaymentStatus
	}
	if update.PaymentMethod != nil {
		set["payment_method"] = *update.PaymentMethod
	}

	opts := options.FindOneAndUpdate().
		SetProjection(withoutReceiptPDF()).
		SetReturnDocument(options.After)

	var order models.Order
	err = r.collection.FindOneAndUpdate(ctx, notDeleted(bson.M{"_id": objID}), bson.M{"$set": set}, opts).Decode(&order)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if update.OrderStatus != nil && *update.OrderStatus == models.StatusDelivered && order.DeliveredAt == nil {
		now := time.Now()
		result, err := r.collection.UpdateOne(
			ctx,
			bson.M{"_id": objID, "delivered_at": nil},
			bson.M{"$set": bson.M{"delivered_at": now}},
		)
		if err != nil {
			return nil, err
		}
		if result.ModifiedCount > 0 {
			order.DeliveredAt = &now
		}
	}

	order.Derive()
	return &order, nil
}

// SoftDelete marca el pedido como eliminado sin destruir el registro.
func (r *MongoOrderRepository) SoftDelete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	result, err := r.collection.UpdateOne(
		ctx,
		notDeleted(bson.M{"_id": objID}),
		bson.M{"$set": bson.M{"is_deleted": true, "updated_at": time.Now()}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// AttachReceipt guarda los bytes del recibo y su timestamp en una sola
// escritura: o se persiste todo o no se persiste nada. Regenerar sobrescribe
// limpiamente el recibo anterior.
func (r *MongoOrderRepository) AttachReceipt(ctx context.Context, id string, pdf []byte) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	result, err := r.collection.UpdateOne(
		ctx,
		notDeleted(bson.M{"_id": objID}),
		bson.M{"$set": bson.M{
			"receipt":    bson.M{"pdf": pdf, "created_at": time.Now()},
			"updated_at": time.Now(),
		}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// GetReceipt devuelve los bytes del recibo generado previamente.
func (r *MongoOrderRepository) GetReceipt(ctx context.Context, id string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	opts := options.FindOne().SetProjection(bson.M{"receipt": 1})

	var order models.Order
	err = r.collection.FindOne(ctx, notDeleted(bson.M{"_id": objID}), opts).Decode(&order)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if order.Receipt == nil || len(order.Receipt.PDF) == 0 {
		return nil, ErrNoReceipt
	}
	return order.Receipt.PDF, nil
}
