package repository

import (
	"context"
	"errors"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"saheli-store/internal/models"
)

// MongoProductRepository implementa ProductRepository sobre MongoDB.
type MongoProductRepository struct {
	collection *mongo.Collection
}

func NewMongoProductRepository(collection *mongo.Collection) *MongoProductRepository {
	return &MongoProductRepository{
		collection: collection,
	}
}

// Create inserta un nuevo producto
func (r *MongoProductRepository) Create(ctx context.Context, product *models.Product) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	product.ID = primitive.NewObjectID()
	if product.ProductID == "" {
		product.ProductID = models.NewProductID()
	}
	product.CreatedAt = time.Now()
	product.UpdatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, product)
	return err
}

// FindByID obtiene un producto por ID. No consulta el caché de listados.
func (r *MongoProductRepository) FindByID(ctx context.Context, id string) (*models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	var product models.Product
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&product)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	product.Derive()
	return &product, nil
}

// FindAll lista productos según el filtro, los más recientes primero.
// Un filtro vacío devuelve el catálogo completo, activos e inactivos.
func (r *MongoProductRepository) FindAll(ctx context.Context, filter models.ProductFilter) ([]*models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	query := bson.M{}

	if filter.Category != "" {
		query["category"] = primitive.Regex{Pattern: regexp.QuoteMeta(filter.Category), Options: "i"}
	}
	if filter.BestSeller != nil {
		query["best_seller"] = *filter.BestSeller
	}
	if filter.Recommended != nil {
		query["recommended"] = *filter.Recommended
	}
	if filter.MinPrice != nil || filter.MaxPrice != nil {
		price := bson.M{}
		if filter.MinPrice != nil {
			price["$gte"] = *filter.MinPrice
		}
		if filter.MaxPrice != nil {
			price["$lte"] = *filter.MaxPrice
		}
		query["price"] = price
	}
	if filter.Search != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(filter.Search), Options: "i"}
		query["$or"] = bson.A{
			bson.M{"title": pattern},
			bson.M{"category": pattern},
			bson.M{"description": pattern},
		}
	}

	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.collection.Find(ctx, query, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var products []*models.Product
	if err = cursor.All(ctx, &products); err != nil {
		return nil, err
	}

	for _, p := range products {
		p.Derive()
	}
	return products, nil
}

// Update aplica un update parcial y devuelve el documento actualizado.
func (r *MongoProductRepository) Update(ctx context.Context, id string, update models.ProductUpdate) (*models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	update.Normalize()

	set := bson.M{"updated_at": time.Now()}
	if update.Title != nil {
		set["title"] = *update.Title
	}
	if update.Category != nil {
		set["category"] = *update.Category
	}
	if update.Description != nil {
		set["description"] = *update.Description
	}
	if update.Price != nil {
		set["price"] = *update.Price
	}
	if update.Stock != nil {
		set["stock"] = *update.Stock
		set["is_active"] = *update.Stock > 0
	}
	if update.Discount != nil {
		set["discount"] = *update.Discount
	}
	if update.Rating != nil {
		set["rating"] = *update.Rating
	}
	if update.Recommended != nil {
		set["recommended"] = *update.Recommended
	}
	if update.BestSeller != nil {
		set["best_seller"] = *update.BestSeller
	}
	if update.Image != nil {
		set["image"] = *update.Image
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var product models.Product
	err = r.collection.FindOneAndUpdate(ctx, bson.M{"_id": objID}, bson.M{"$set": set}, opts).Decode(&product)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	product.Derive()
	return &product, nil
}

// Delete elimina físicamente el producto.
func (r *MongoProductRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ToggleFlag invierte recommended o bestSeller y devuelve el producto.
func (r *MongoProductRepository) ToggleFlag(ctx context.Context, id, field string) (*models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if !models.ToggleableFlags[field] {
		return nil, models.NewValidationError("Invalid field!")
	}

	product, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var bsonField string
	var newValue bool
	switch field {
	case "recommended":
		bsonField = "recommended"
		newValue = !product.Recommended
		product.Recommended = newValue
	case "bestSeller":
		bsonField = "best_seller"
		newValue = !product.BestSeller
		product.BestSeller = newValue
	}

	_, err = r.collection.UpdateOne(ctx, bson.M{"_id": product.ID}, bson.M{
		"$set": bson.M{bsonField: newValue, "updated_at": time.Now()},
	})
	if err != nil {
		return nil, err
	}

	product.Derive()
	return product, nil
}
