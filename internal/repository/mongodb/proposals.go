package mongodb

import (
	"context"
	"errors"
	"org-governance/internal/config"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const proposalsCollection = "proposals"

func (b Repository) UpsertProposal(ctx context.Context, proposal StoredProposal) error {
	coll := b.client.Database(config.GetDatabaseName()).Collection(proposalsCollection)

	filter := bson.M{"_id": proposal.ProposalID}
	update := bson.M{"$set": proposal}

	_, err := coll.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return errors.New("failed to upsert the proposal: " + err.Error())
	}

	return nil
}

func (b Repository) GetProposal(ctx context.Context, proposalID uint64) (StoredProposal, error) {
	coll := b.client.Database(config.GetDatabaseName()).Collection(proposalsCollection)

	var proposal StoredProposal
	err := coll.FindOne(ctx, bson.M{"_id": proposalID}).Decode(&proposal)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return StoredProposal{}, errors.New("proposal not found")
	}
	if err != nil {
		return StoredProposal{}, errors.New("failed to get the proposal: " + err.Error())
	}

	return proposal, nil
}

// GetTargetProposals returns all proposals opened against one member
func (b Repository) GetTargetProposals(ctx context.Context, target string) ([]StoredProposal, error) {
	return b.getProposals(ctx, bson.M{"target": target})
}

// GetOpenProposals returns proposals whose vote is still running
func (b Repository) GetOpenProposals(ctx context.Context, now int64) ([]StoredProposal, error) {
	return b.getProposals(ctx, bson.M{
		"executed":     false,
		"voteDeadline": bson.M{"$gte": now},
	})
}

func (b Repository) getProposals(ctx context.Context, filter bson.M) ([]StoredProposal, error) {
	coll := b.client.Database(config.GetDatabaseName()).Collection(proposalsCollection)

	cursor, err := coll.Find(ctx, filter)
	if err != nil {
		return nil, errors.New("failed to find the proposals: " + err.Error())
	}

	var proposals []StoredProposal
	if err := cursor.All(ctx, &proposals); err != nil {
		return nil, errors.New("failed to read the proposals from the cursor: " + err.Error())
	}

	return proposals, nil
}
