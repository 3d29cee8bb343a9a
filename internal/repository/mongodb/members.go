package mongodb

import (
	"context"
	"errors"
	"org-governance/internal/config"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const membersCollection = "members"

func (b Repository) UpsertMember(ctx context.Context, member StoredMember) error {
	coll := b.client.Database(config.GetDatabaseName()).Collection(membersCollection)

	filter := bson.M{"_id": member.Identity}
	update := bson.M{"$set": member}

	_, err := coll.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return errors.New("failed to upsert the member: " + err.Error())
	}

	return nil
}

func (b Repository) GetMember(ctx context.Context, identity string) (StoredMember, error) {
	coll := b.client.Database(config.GetDatabaseName()).Collection(membersCollection)

	var member StoredMember
	err := coll.FindOne(ctx, bson.M{"_id": identity}).Decode(&member)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return StoredMember{}, errors.New("member not found: " + identity)
	}
	if err != nil {
		return StoredMember{}, errors.New("failed to get the member: " + err.Error())
	}

	return member, nil
}

func (b Repository) GetActiveMembers(ctx context.Context) ([]StoredMember, error) {
	coll := b.client.Database(config.GetDatabaseName()).Collection(membersCollection)

	cursor, err := coll.Find(ctx, bson.M{"active": true})
	if err != nil {
		return nil, errors.New("failed to find the active members: " + err.Error())
	}

	var members []StoredMember
	if err := cursor.All(ctx, &members); err != nil {
		return nil, errors.New("failed to read the members from the cursor: " + err.Error())
	}

	return members, nil
}
