package mongodb

import (
	"context"
	"errors"
	"org-governance/internal/config"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const dealsCollection = "deals"

func (b Repository) UpsertDeal(ctx context.Context, deal StoredDeal) error {
	coll := b.client.Database(config.GetDatabaseName()).Collection(dealsCollection)

	filter := bson.M{"_id": deal.DealID}
	update := bson.M{"$set": deal}

	_, err := coll.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return errors.New("failed to upsert the deal: " + err.Error())
	}

	return nil
}

func (b Repository) GetDeal(ctx context.Context, dealID uint64) (StoredDeal, error) {
	coll := b.client.Database(config.GetDatabaseName()).Collection(dealsCollection)

	var deal StoredDeal
	err := coll.FindOne(ctx, bson.M{"_id": dealID}).Decode(&deal)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return StoredDeal{}, errors.New("deal not found")
	}
	if err != nil {
		return StoredDeal{}, errors.New("failed to get the deal: " + err.Error())
	}

	return deal, nil
}

// GetPartyDeals returns all deals one member takes part in, as buyer
// or as seller
func (b Repository) GetPartyDeals(ctx context.Context, identity string) ([]StoredDeal, error) {
	coll := b.client.Database(config.GetDatabaseName()).Collection(dealsCollection)

	filter := bson.M{"$or": []bson.M{
		{"buyer": identity},
		{"seller": identity},
	}}

	cursor, err := coll.Find(ctx, filter)
	if err != nil {
		return nil, errors.New("failed to find the deals: " + err.Error())
	}

	var deals []StoredDeal
	if err := cursor.All(ctx, &deals); err != nil {
		return nil, errors.New("failed to read the deals from the cursor: " + err.Error())
	}

	return deals, nil
}
