package repositories

import (
	"context"
	"errors"
	"fmt"

	"catalog/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// productDocument is the stored shape of a product. Field names are the
// JSON names, so collections written by the browser-facing API can be
// served as-is.
type productDocument struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty"`
	ProductName        string             `bson:"ProductName"`
	ProductPrice       int64              `bson:"ProductPrice"`
	ProductBarcode     int64              `bson:"ProductBarcode"`
	ProductDescription string             `bson:"ProductDescription"`
	ProductImage       string             `bson:"ProductImage"`
	ProductCategory    string             `bson:"ProductCategory"`
	ProductSKU         string             `bson:"ProductSKU"`
}

func newProductDocument(p *models.Product) productDocument {
	return productDocument{
		ProductName:        p.ProductName,
		ProductPrice:       p.ProductPrice,
		ProductBarcode:     p.ProductBarcode,
		ProductDescription: p.ProductDescription,
		ProductImage:       p.ProductImage,
		ProductCategory:    p.ProductCategory,
		ProductSKU:         p.ProductSKU,
	}
}

func (d productDocument) toModel() *models.Product {
	return &models.Product{
		ID:                 d.ID.Hex(),
		ProductName:        d.ProductName,
		ProductPrice:       d.ProductPrice,
		ProductBarcode:     d.ProductBarcode,
		ProductDescription: d.ProductDescription,
		ProductImage:       d.ProductImage,
		ProductCategory:    d.ProductCategory,
		ProductSKU:         d.ProductSKU,
	}
}

// MongoProductRepository is a MongoDB implementation of ProductRepository.
type MongoProductRepository struct {
	coll *mongo.Collection
}

// NewMongoProductRepository creates a repository backed by coll.
func NewMongoProductRepository(coll *mongo.Collection) *MongoProductRepository {
	return &MongoProductRepository{coll: coll}
}

// EnsureUniqueBarcode creates a unique index on ProductBarcode.
func (r *MongoProductRepository) EnsureUniqueBarcode(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "ProductBarcode", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("unique_barcode"),
	})
	if err != nil {
		return fmt.Errorf("failed to create unique barcode index: %w", err)
	}
	return nil
}

// GetAll returns every product in natural order.
func (r *MongoProductRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	cursor, err := r.coll.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("failed to get all products: %w", err)
	}
	var docs []productDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}
	products := make([]models.Product, 0, len(docs))
	for _, doc := range docs {
		products = append(products, *doc.toModel())
	}
	return products, nil
}

// GetByID returns the product with the given hex ObjectID.
func (r *MongoProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("product with ID %s: %w", id, ErrProductNotFound)
	}
	return r.findOne(ctx, bson.D{{Key: "_id", Value: oid}})
}

// GetByBarcode returns the product carrying barcode.
func (r *MongoProductRepository) GetByBarcode(ctx context.Context, barcode int64) (*models.Product, error) {
	return r.findOne(ctx, bson.D{{Key: "ProductBarcode", Value: barcode}})
}

func (r *MongoProductRepository) findOne(ctx context.Context, filter bson.D) (*models.Product, error) {
	var doc productDocument
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		return nil, notFoundOr(err, "failed to find product")
	}
	return doc.toModel(), nil
}

// CreateMany inserts the products with a single ordered InsertMany.
func (r *MongoProductRepository) CreateMany(ctx context.Context, products []*models.Product) error {
	if len(products) == 0 {
		return nil
	}
	docs := make([]interface{}, 0, len(products))
	ids := make([]primitive.ObjectID, 0, len(products))
	for _, p := range products {
		doc := newProductDocument(p)
		doc.ID = primitive.NewObjectID()
		ids = append(ids, doc.ID)
		docs = append(docs, doc)
	}
	if _, err := r.coll.InsertMany(ctx, docs); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("failed to insert products: %w", ErrDuplicateBarcode)
		}
		return fmt.Errorf("failed to insert products: %w", err)
	}
	for i, p := range products {
		p.ID = ids[i].Hex()
	}
	return nil
}

// Update replaces the business fields and reads back the updated document.
func (r *MongoProductRepository) Update(ctx context.Context, product *models.Product) error {
	oid, err := primitive.ObjectIDFromHex(product.ID)
	if err != nil {
		return fmt.Errorf("product with ID %s not found for update: %w", product.ID, ErrProductNotFound)
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	update := bson.D{{Key: "$set", Value: newProductDocument(product)}}

	var doc productDocument
	err = r.coll.FindOneAndUpdate(ctx, bson.D{{Key: "_id", Value: oid}}, update, opts).Decode(&doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("failed to update product: %w", ErrDuplicateBarcode)
		}
		return notFoundOr(err, "failed to update product")
	}
	*product = *doc.toModel()
	return nil
}

// Delete removes the product and returns the removed document.
func (r *MongoProductRepository) Delete(ctx context.Context, id string) (*models.Product, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("product with ID %s not found for deletion: %w", id, ErrProductNotFound)
	}
	var doc productDocument
	if err := r.coll.FindOneAndDelete(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&doc); err != nil {
		return nil, notFoundOr(err, "failed to delete product")
	}
	return doc.toModel(), nil
}

func notFoundOr(err error, msg string) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return fmt.Errorf("%s: %w", msg, ErrProductNotFound)
	}
	return fmt.Errorf("%s: %w", msg, err)
}
