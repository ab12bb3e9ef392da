package repo

import (
	"context"
	"errors"
	"time"

	"github.com/portfolio-showcase/portfolio-api/internal/modules/model"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"gorm.io/datatypes"
)

type projectDoc struct {
	ID              bson.ObjectID `bson:"_id,omitempty"`
	Title           string        `bson:"title"`
	Description1    string        `bson:"description1"`
	Description2    string        `bson:"description2"`
	ProjectType     string        `bson:"projectType"`
	ProjectArea     string        `bson:"projectArea"`
	ProjectLocation string        `bson:"projectLocation"`
	MainImage       *string       `bson:"mainImage"`
	OtherImages     []string      `bson:"otherImages"`
	CreatedAt       time.Time     `bson:"createdAt"`
}

func (d *projectDoc) toModel() *model.Project {
	others := datatypes.JSONSlice[string]{}
	others = append(others, d.OtherImages...)
	return &model.Project{
		ID:              d.ID.Hex(),
		Title:           d.Title,
		Description1:    d.Description1,
		Description2:    d.Description2,
		ProjectType:     d.ProjectType,
		ProjectArea:     d.ProjectArea,
		ProjectLocation: d.ProjectLocation,
		MainImage:       d.MainImage,
		OtherImages:     others,
		CreatedAt:       d.CreatedAt,
	}
}

func patchToBSON(p *model.ProjectPatch) bson.M {
	set := bson.M{}
	if p.Title != nil {
		set["title"] = *p.Title
	}
	if p.Description1 != nil {
		set["description1"] = *p.Description1
	}
	if p.Description2 != nil {
		set["description2"] = *p.Description2
	}
	if p.ProjectType != nil {
		set["projectType"] = *p.ProjectType
	}
	if p.ProjectArea != nil {
		set["projectArea"] = *p.ProjectArea
	}
	if p.ProjectLocation != nil {
		set["projectLocation"] = *p.ProjectLocation
	}
	if p.MainImage != nil {
		set["mainImage"] = *p.MainImage
	}
	if p.OtherImages != nil {
		set["otherImages"] = append([]string{}, (*p.OtherImages)...)
	}
	return set
}

type mongoProjectRepo struct {
	coll *mongo.Collection
}

// NewMongoProjectRepo stores projects as documents keyed by ObjectID.
func NewMongoProjectRepo(coll *mongo.Collection) ProjectRepo {
	return &mongoProjectRepo{coll: coll}
}

func parseObjectID(id string) (bson.ObjectID, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return bson.NilObjectID, ErrInvalidID
	}
	return oid, nil
}

func translateMongoErr(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	return err
}

func (r *mongoProjectRepo) Create(ctx context.Context, p *model.Project) error {
	doc := projectDoc{
		ID:              bson.NewObjectID(),
		Title:           p.Title,
		Description1:    p.Description1,
		Description2:    p.Description2,
		ProjectType:     p.ProjectType,
		ProjectArea:     p.ProjectArea,
		ProjectLocation: p.ProjectLocation,
		MainImage:       p.MainImage,
		OtherImages:     append([]string{}, p.OtherImages...),
		CreatedAt:       time.Now().UTC().Truncate(time.Millisecond),
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return err
	}
	p.ID = doc.ID.Hex()
	p.CreatedAt = doc.CreatedAt
	if p.OtherImages == nil {
		p.OtherImages = datatypes.JSONSlice[string]{}
	}
	return nil
}

func (r *mongoProjectRepo) FindAll(ctx context.Context) ([]*model.Project, error) {
	cur, err := r.coll.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	var docs []projectDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	projects := make([]*model.Project, 0, len(docs))
	for i := range docs {
		projects = append(projects, docs[i].toModel())
	}
	return projects, nil
}

func (r *mongoProjectRepo) FindByID(ctx context.Context, id string) (*model.Project, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}
	var doc projectDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, translateMongoErr(err)
	}
	return doc.toModel(), nil
}

func (r *mongoProjectRepo) UpdateByID(ctx context.Context, id string, patch *model.ProjectPatch) (*model.Project, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}
	set := patchToBSON(patch)
	if len(set) == 0 {
		return r.FindByID(ctx, id)
	}

	var doc projectDoc
	err = r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		return nil, translateMongoErr(err)
	}
	return doc.toModel(), nil
}

func (r *mongoProjectRepo) DeleteByID(ctx context.Context, id string) error {
	oid, err := parseObjectID(id)
	if err != nil {
		return err
	}
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoProjectRepo) Ping(ctx context.Context) error {
	return r.coll.Database().Client().Ping(ctx, nil)
}
