package detect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"instant_test/generator"
)

const controllerSource = `package com.acme.web;

@RestController
@RequestMapping("/orders")
@RequiredArgsConstructor
public class OrderController {
    private final OrderService service;

    @GetMapping("/{id}")
    public ResponseEntity<Order> get(@PathVariable Long id) {
        if (id == null) { return ResponseEntity.notFound().build(); }
        return ResponseEntity.ok(service.findById(id));
    }

    @PostMapping
    @ResponseStatus(HttpStatus.CREATED)
    public Order create(@Valid @RequestBody Order order) {
        return service.save(order);
    }

    @GetMapping("/recent")
    private List<Order> recent(int limit) {
        if (limit < 0) { return List.of(); } else if (limit == 0) { return List.of(); }
        return service.recent(limit);
    }
}`

func TestClassName(t *testing.T) {
	assert.Equal(t, "OrderController", ClassName(controllerSource))
	assert.Equal(t, "Helper", ClassName("final class Helper {}"))
	assert.Equal(t, UnknownClassName, ClassName("interface Port {}"))
	assert.Equal(t, UnknownClassName, ClassName(""))
}

func TestCategory(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want generator.Category
	}{
		{"rest controller", controllerSource, generator.CategoryController},
		{"service annotation", "@Service\npublic class Billing {}", generator.CategoryService},
		{"spring data interface", "public interface OrderRepo extends JpaRepository<Order, Long> {}", generator.CategoryRepository},
		{"entity", "@Entity\n@Table(name=\"o\")\npublic class Order {}", generator.CategoryEntity},
		{"config", "@Configuration\npublic class AppConfig { @Bean Clock clock() { return null; } }", generator.CategoryConfig},
		{"component", "@Component\npublic class Clock {}", generator.CategoryComponent},
		{"annotation beats name", "@Service\npublic class OrderController {}", generator.CategoryService},
		{"serviceimpl suffix", "public class OrderServiceImpl {}", generator.CategoryService},
		{"dao suffix", "public class OrderDao {}", generator.CategoryRepository},
		{"model suffix", "public class OrderModel {}", generator.CategoryEntity},
		{"request suffix", "public class CreateOrderRequest {}", generator.CategoryDTO},
		{"utils suffix", "public final class StringUtils {}", generator.CategoryUtility},
		{"plain class", "public class Order {}", generator.CategoryUnknown},
		{"blank", "  ", generator.CategoryUnknown},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Category(tc.src))
		})
	}
}

func TestUnits(t *testing.T) {
	units := Units(controllerSource)
	names := make([]string, 0, len(units))
	for _, u := range units {
		names = append(names, u.Name)
	}
	assert.Equal(t, []string{"get", "create", "recent"}, names)
	assert.NotContains(t, names, "if")

	require.Len(t, units, 3)
	assert.Equal(t, "int limit", units[2].Parameters)
	assert.Equal(t, "recent(int limit)", units[2].Signature)
}

func TestUnitNames_DeduplicatesOverloads(t *testing.T) {
	src := `public class Calc {
    public int add(int a, int b) { return a + b; }
    public long add(long a, long b) { return a + b; }
    static double half(double x) { return x / 2; }
}`
	assert.Equal(t, []string{"add", "half"}, UnitNames(src))
	assert.Len(t, Units(src), 3)
}

func TestAnnotations(t *testing.T) {
	got := Annotations(controllerSource)

	names := make([]string, 0, len(got))
	for _, a := range got {
		names = append(names, a.Name)
	}
	assert.Equal(t, []string{
		"RestController", "RequestMapping", "RequiredArgsConstructor", "GetMapping",
		"PathVariable", "PostMapping", "ResponseStatus", "Valid", "RequestBody",
	}, names)

	assert.Equal(t, generator.Annotation{
		Name:     "Valid",
		Category: "validation",
		Hint:     "Test with invalid objects to trigger MethodArgumentNotValidException",
	}, got[7])
}

func TestAnnotations_SkipsUnknown(t *testing.T) {
	assert.Empty(t, Annotations("@Override\n@SuppressWarnings(\"unchecked\")\nvoid run() {}"))
}
